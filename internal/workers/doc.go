/*
Package workers sizes worker pools and runs per-file jobs across them.

# Pool sizing

Count and ForCPU derive a worker count from GOMAXPROCS, which Go sets
from container CPU limits. BATCH_WORKERS overrides the computed value:

	n := workers.ForCPU(0) // one worker per available CPU

# Batch execution

Run fans n jobs out over a bounded errgroup and stores each value at its
input index, so output order always equals input order regardless of which
job finishes first. Jobs are independent: a failure does not cancel the
others, but the aggregate result is either every value or the first error.

	thumbs, err := workers.Run(len(names), n, func(i int) (Thumb, error) {
	    return build(names[i])
	})

Collect runs the same way and returns a value-or-error Result per index for
callers that prefer partial results.

Neither function supports cancellation; a started batch always runs to
completion.
*/
package workers
