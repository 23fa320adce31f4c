package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitzone_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitzone_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitzone_bookings_total",
			Help: "Total number of booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	BookingCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitzone_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
		[]string{"by"},
	)

	AttendanceMarkedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitzone_attendance_marked_total",
			Help: "Total number of attendance records written",
		},
		[]string{"attended", "source"},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitzone_payments_total",
			Help: "Payment status transitions",
		},
		[]string{"status", "method"},
	)

	PaymentsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitzone_payments_expired_total",
			Help: "Pending payments expired by the sweeper",
		},
	)

	MembershipActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitzone_membership_activations_total",
			Help: "Total number of memberships activated",
		},
		[]string{"plan", "source"},
	)

	TrainerDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitzone_trainer_decisions_total",
			Help: "Trainer approval decisions",
		},
		[]string{"decision"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitzone_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitzone_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordBooking counts a booking attempt; outcome is "confirmed" or the refusal reason.
func RecordBooking(outcome string) {
	BookingsTotal.WithLabelValues(outcome).Inc()
}

func RecordBookingCancellation(by string) {
	BookingCancellationsTotal.WithLabelValues(by).Inc()
}

func RecordAttendance(attended bool, source string) {
	label := "false"
	if attended {
		label = "true"
	}
	AttendanceMarkedTotal.WithLabelValues(label, source).Inc()
}

// RecordAbsentees counts bookings the sweeper marked absent.
func RecordAbsentees(n int64) {
	AttendanceMarkedTotal.WithLabelValues("false", "sweeper").Add(float64(n))
}

func RecordPayment(status, method string) {
	PaymentsTotal.WithLabelValues(status, method).Inc()
}

func RecordPaymentsExpired(n int64) {
	PaymentsExpiredTotal.Add(float64(n))
}

func RecordMembershipActivation(plan, source string) {
	MembershipActivationsTotal.WithLabelValues(plan, source).Inc()
}

func RecordTrainerDecision(decision string) {
	TrainerDecisionsTotal.WithLabelValues(decision).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
