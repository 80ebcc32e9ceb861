package facility

import (
	"context"
	"time"
)

// Logger is satisfied by *slog.Logger and by the journal's logger adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger is preferred over Logger when the configured logger implements it.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector has the same shape as the journal's collector, so one adapter serves both.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector is preferred over MetricsCollector when available.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

const (
	metricGameRounds       = "facility_game_rounds_total"
	metricBetsDeclined     = "facility_bets_declined_total"
	metricOrdersPlaced     = "facility_orders_placed_total"
	metricOrdersRejected   = "facility_orders_rejected_total"
	metricOrdersServed     = "facility_orders_served_total"
	metricParkingWait      = "facility_parking_wait_seconds"
	metricParkingFailed    = "facility_parking_failed_total"
	metricHotelBookings    = "facility_hotel_bookings_total"
	metricHotelFailed      = "facility_hotel_booking_failed_total"
	metricRestaurantsFull  = "facility_restaurant_full_total"
	metricDepartures       = "facility_departures_total"
	metricStayDuration     = "facility_stay_duration_seconds"
	metricRetries          = "facility_resource_retries_total"
	metricRetriesExhausted = "facility_resource_retries_exhausted_total"
	metricLobbySize        = "facility_lobby_customers"
	metricActiveCustomers  = "facility_active_customers"
	metricParkingOccupied  = "facility_parking_occupied"
	metricRoomsOccupied    = "facility_rooms_occupied"
	metricTableWaiting     = "facility_table_waiting_customers"
	metricRestaurantSeated = "facility_restaurant_seated_customers"
	metricPendingOrders    = "facility_pending_orders"
)

const (
	logMsgFacilityOpened   = "facility opened"
	logMsgFacilityClosing  = "facility closing"
	logMsgFacilityClosed   = "facility closed"
	logMsgCustomerAdmitted = "customer admitted"
	logMsgCustomerDeparted = "customer departed"
	logMsgParkingFailed    = "parking failed"
	logMsgRestaurantFull   = "restaurant full"
	logMsgHotelFull        = "hotel full"
	logMsgRoundDealt       = "round dealt"
	logMsgOrderServed      = "order served"

	logAttrCustomerID = "customer_id"
	logAttrProfile    = "profile"
	logAttrBalance    = "balance"
	logAttrReason     = "reason"
	logAttrResource   = "resource"
	logAttrGame       = "game"
	logAttrTable      = "table"
	logAttrPlayers    = "players"
	logAttrVenue      = "venue"
	logAttrVenueType  = "venue_type"
	logAttrOrderID    = "order_id"
	logAttrAttempts   = "attempts"
	logAttrCustomers  = "customers"
	logAttrError      = "error"
)

type observer struct {
	logger  Logger
	metrics MetricsCollector
}

func (o observer) debug(ctx context.Context, msg string, args ...any) {
	if o.logger == nil {
		return
	}

	if cl, ok := o.logger.(ContextualLogger); ok {
		cl.DebugContext(ctx, msg, args...)
		return
	}

	o.logger.Debug(msg, args...)
}

func (o observer) info(ctx context.Context, msg string, args ...any) {
	if o.logger == nil {
		return
	}

	if cl, ok := o.logger.(ContextualLogger); ok {
		cl.InfoContext(ctx, msg, args...)
		return
	}

	o.logger.Info(msg, args...)
}

func (o observer) warn(ctx context.Context, msg string, args ...any) {
	if o.logger == nil {
		return
	}

	if cl, ok := o.logger.(ContextualLogger); ok {
		cl.WarnContext(ctx, msg, args...)
		return
	}

	o.logger.Warn(msg, args...)
}

func (o observer) count(ctx context.Context, metric string, labels map[string]string) {
	incrementCounter(ctx, o.metrics, metric, labels)
}

func (o observer) duration(ctx context.Context, metric string, d time.Duration, labels map[string]string) {
	if o.metrics == nil {
		return
	}

	if cm, ok := o.metrics.(ContextualMetricsCollector); ok {
		cm.RecordDurationContext(ctx, metric, d, labels)
		return
	}

	o.metrics.RecordDuration(metric, d, labels)
}

func (o observer) value(ctx context.Context, metric string, v float64, labels map[string]string) {
	if o.metrics == nil {
		return
	}

	if cm, ok := o.metrics.(ContextualMetricsCollector); ok {
		cm.RecordValueContext(ctx, metric, v, labels)
		return
	}

	o.metrics.RecordValue(metric, v, labels)
}

func incrementCounter(ctx context.Context, metrics MetricsCollector, metric string, labels map[string]string) {
	if metrics == nil {
		return
	}

	if cm, ok := metrics.(ContextualMetricsCollector); ok {
		cm.IncrementCounterContext(ctx, metric, labels)
		return
	}

	metrics.IncrementCounter(metric, labels)
}
