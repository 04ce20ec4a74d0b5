package folders

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"educreate/internal/domain"
)

var (
	// moveDuration tracks move latency by outcome code
	moveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "educreate_folder_move_duration_seconds",
		Help:    "Folder move duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
	}, []string{"outcome"})

	// moveSubtreeSize tracks how many folders one move rewrites
	moveSubtreeSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "educreate_folder_move_subtree_size",
		Help:    "Number of folders whose depth and path were rewritten per move",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000},
	})

	// operationsTotal counts mutating folder operations by outcome code
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "educreate_folder_operations_total",
		Help: "Folder operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// repairedFolders counts folders rewritten by hierarchy repair
	repairedFolders = promauto.NewCounter(prometheus.CounterOpts{
		Name: "educreate_folder_repaired_total",
		Help: "Folders whose hierarchy fields were rewritten by repair",
	})
)

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return domain.Code(err)
}

func recordOperation(operation string, err error) {
	operationsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

func observeMove(start time.Time, updated int, err error) {
	moveDuration.WithLabelValues(outcome(err)).Observe(time.Since(start).Seconds())
	recordOperation("move", err)
	if err == nil && updated > 0 {
		moveSubtreeSize.Observe(float64(updated))
	}
}
