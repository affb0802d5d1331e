package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordMutations counts create/update/delete operations per record kind
	// and outcome (success|conflict|error).
	RecordMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accesshub_record_mutations_total",
			Help: "Total number of record mutations by kind, operation and result",
		},
		[]string{"record", "op", "result"},
	)

	// AssociationChanges counts assign/revoke operations on the two
	// association kinds (employee_role, role_group).
	AssociationChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accesshub_association_changes_total",
			Help: "Total number of association rows added or removed",
		},
		[]string{"association", "op"},
	)

	// Serializations counts dictionary projections produced per record kind.
	Serializations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accesshub_serializations_total",
			Help: "Total number of dictionary serializations by record kind",
		},
		[]string{"record"},
	)

	// CascadeDeletedRows counts association rows removed by cascading deletes.
	CascadeDeletedRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accesshub_cascade_deleted_rows_total",
			Help: "Association rows deleted alongside their owning record",
		},
		[]string{"association"},
	)
)
