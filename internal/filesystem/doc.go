/*
Package filesystem provides the directory primitives the image pipeline is
built on: existence checks, sorted listings filtered to image extensions, and
stat/open/readdir/rename calls that survive NFS stale file handles.

# Retry Behavior

Only ESTALE triggers a retry. Defaults are 3 retries with exponential backoff
from 50ms capped at 500ms; every other error is returned on the first attempt.

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())

# Listings

ListImages filters by the fixed extension set in mediatypes, matching case
insensitively while returning names exactly as stored, in lexicographic order.

# Metrics

Operations report to an Observer installed with SetObserver. The metrics
package provides the Prometheus-backed implementation; without one, nothing is
recorded.
*/
package filesystem
