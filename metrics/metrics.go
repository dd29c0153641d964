package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the reaction and command counters
const (
	OutcomeGranted      = "granted"
	OutcomeRevoked      = "revoked"
	OutcomeIgnoredSelf  = "ignored_self"
	OutcomeRoleNotFound = "role_not_found"
	OutcomeNoMember     = "member_not_found"
	OutcomeError        = "error"
)

type Metrics struct {
	ReactionEvents  *prometheus.CounterVec
	RolesCreated    prometheus.Counter
	MirroredEmojis  prometheus.Counter
	MenusPublished  prometheus.Counter
	MessagesPurged  prometheus.Counter
	CommandsHandled *prometheus.CounterVec
	EventTasks      *prometheus.CounterVec
}

// New creates the bot's collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReactionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rolebot",
			Name:      "reaction_events_total",
			Help:      "Reaction events handled, by action and outcome.",
		}, []string{"action", "outcome"}),
		RolesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rolebot",
			Name:      "roles_created_total",
			Help:      "Guild roles created on first use.",
		}),
		MirroredEmojis: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rolebot",
			Name:      "mirrored_reactions_total",
			Help:      "Reactions the bot added to its own role menus.",
		}),
		MenusPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rolebot",
			Name:      "menus_published_total",
			Help:      "Role menu messages posted.",
		}),
		MessagesPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rolebot",
			Name:      "messages_purged_total",
			Help:      "Bot-authored messages deleted before republishing menus.",
		}),
		CommandsHandled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rolebot",
			Name:      "commands_total",
			Help:      "Chat commands handled, by command name.",
		}, []string{"command"}),
		EventTasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rolebot",
			Name:      "event_tasks_total",
			Help:      "Gateway event tasks run on the worker pool, by event and status.",
		}, []string{"event", "status"}),
	}

	reg.MustRegister(
		m.ReactionEvents,
		m.RolesCreated,
		m.MirroredEmojis,
		m.MenusPublished,
		m.MessagesPurged,
		m.CommandsHandled,
		m.EventTasks,
	)
	return m
}

// NewNop returns collectors registered nowhere, for tests that do not inspect metrics
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
