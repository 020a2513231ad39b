package sqliteengine

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
)

const (
	defaultEventTableName          = "events"
	engineName                     = "sqlite"
	dialectSQLite                  = "sqlite3"
	colSequenceNumber              = "sequence_number"
	colEventType                   = "event_type"
	colOccurredAt                  = "occurred_at"
	colPayload                     = "payload"
	colMetadata                    = "metadata"
	jsonExtractEquals              = "json_extract(payload, ?) = ?"
	logMsgBuildQueryFailed         = "failed to build query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgQueryCompleted           = "query completed"
	logMsgEventsAppended           = "events appended"
	logMsgConcurrencyConflict      = "concurrency conflict detected"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "eventstore operation: "
	logAttrError                   = "error"
	logAttrQuery                   = "query"
	logAttrEventType               = "event_type"
	logAttrEventCount              = "event_count"
	logAttrDurationMS              = "duration_ms"
	logAttrExpectedSequence        = "expected_sequence"
	logAttrActualSequence          = "actual_sequence"
	logActionQuery                 = "query"
	logActionAppend                = "append"
)

// EventStore is the SQLite engine of the lending ledger.
type EventStore struct {
	db               *sqlx.DB
	eventTableName   string
	logger           eventstore.Logger
	metricsCollector eventstore.MetricsCollector
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithTableName sets the table name for the EventStore.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the EventStore.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the EventStore.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metricsCollector = collector
		return nil
	}
}

// eventRow is the sqlx scan target of the events table.
type eventRow struct {
	SequenceNumber int64  `db:"sequence_number"`
	EventType      string `db:"event_type"`
	OccurredAt     int64  `db:"occurred_at"`
	Payload        []byte `db:"payload"`
	Metadata       []byte `db:"metadata"`
}

// NewEventStore creates a new EventStore on top of an sqlx.DB opened with the "sqlite" driver.
func NewEventStore(db *sqlx.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	es := EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return EventStore{}, err
		}
	}

	return es, nil
}

// Query retrieves the events matching the filter in sequence order,
// as well as the MaxSequenceNumberUint of this "dynamic event stream" at the time of the query.
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	sqlQuery, _, toSQLErr := es.addWhereClause(filter, es.builder().
		From(es.eventTableName).
		Select(colSequenceNumber, colEventType, colOccurredAt, colPayload, colMetadata).
		Order(goqu.I(colSequenceNumber).Asc())).
		ToSQL()

	if toSQLErr != nil {
		es.logError(logMsgBuildQueryFailed, logAttrError, toSQLErr.Error())
		return nil, 0, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()
	rows := make([]eventRow, 0)
	queryErr := es.db.SelectContext(ctx, &rows, sqlQuery)
	duration := time.Since(start)
	es.logQueryWithDuration(sqlQuery, logActionQuery, duration)

	if queryErr != nil {
		es.logError(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		es.recordOperation(ctx, logActionQuery, eventstore.StatusError, duration)
		eventstore.IncrementCounter(ctx, es.metricsCollector, eventstore.MetricDatabaseErrors, es.labels(logActionQuery, eventstore.StatusError))

		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}

	eventStream := make(eventstore.StorableEvents, 0, len(rows))
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, row := range rows {
		event, buildErr := eventstore.BuildStorableEvent(row.EventType, time.UnixMicro(row.OccurredAt).UTC(), row.Payload, row.Metadata)
		if buildErr != nil {
			es.logError(logMsgBuildStorableEventFailed, logAttrError, buildErr.Error(), logAttrEventType, row.EventType)
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildErr)
		}

		event.SequenceNumber = eventstore.MaxSequenceNumberUint(row.SequenceNumber)
		eventStream = append(eventStream, event)
		maxSequenceNumber = event.SequenceNumber
	}

	es.recordOperation(ctx, logActionQuery, eventstore.StatusSuccess, duration)
	eventstore.RecordValue(ctx, es.metricsCollector, eventstore.MetricEventsQueried, float64(len(eventStream)), es.labels(logActionQuery, eventstore.StatusSuccess))
	es.logOperation(logMsgQueryCompleted, logAttrEventCount, len(eventStream), logAttrDurationMS, durationToMilliseconds(duration))

	return eventStream, maxSequenceNumber, nil
}

// Append atomically appends one or multiple events if, and only if, no event matching the filter
// was appended after expectedMaxSequenceNumber. Otherwise, it returns eventstore.ErrConcurrencyConflict.
func (es EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	events ...eventstore.StorableEvent,
) error {

	if len(events) == 0 {
		return eventstore.ErrNoEventsToAppend
	}

	maxSeqQuery, insertQuery, buildErr := es.buildAppendQueries(filter, events)
	if buildErr != nil {
		es.logError(logMsgBuildQueryFailed, logAttrError, buildErr.Error(), logAttrEventCount, len(events))
		return buildErr
	}

	start := time.Now()
	conflict, actualMaxSeq, execErr := es.appendInTx(ctx, maxSeqQuery, insertQuery, expectedMaxSequenceNumber)
	duration := time.Since(start)
	es.logQueryWithDuration(insertQuery, logActionAppend, duration)

	if execErr != nil {
		es.logError(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, insertQuery)
		es.recordOperation(ctx, logActionAppend, eventstore.StatusError, duration)
		eventstore.IncrementCounter(ctx, es.metricsCollector, eventstore.MetricDatabaseErrors, es.labels(logActionAppend, eventstore.StatusError))

		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	if conflict {
		es.logOperation(logMsgConcurrencyConflict,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
			logAttrActualSequence, actualMaxSeq)
		eventstore.IncrementCounter(ctx, es.metricsCollector, eventstore.MetricConcurrencyConflicts, es.labels(logActionAppend, eventstore.StatusError))

		return eventstore.ErrConcurrencyConflict
	}

	es.recordOperation(ctx, logActionAppend, eventstore.StatusSuccess, duration)
	eventstore.RecordValue(ctx, es.metricsCollector, eventstore.MetricEventsAppended, float64(len(events)), es.labels(logActionAppend, eventstore.StatusSuccess))
	es.logOperation(logMsgEventsAppended, logAttrEventCount, len(events), logAttrDurationMS, durationToMilliseconds(duration))

	return nil
}

// appendInTx runs the compare and the insert inside one write transaction.
func (es EventStore) appendInTx(
	ctx context.Context,
	maxSeqQuery string,
	insertQuery string,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (conflict bool, actual int64, err error) {

	tx, err := es.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, 0, err
	}
	defer func() { _ = tx.Rollback() }() // no-op after a successful commit

	if err = tx.GetContext(ctx, &actual, maxSeqQuery); err != nil {
		return false, 0, err
	}

	if actual != int64(expectedMaxSequenceNumber) {
		return true, actual, nil
	}

	if _, err = tx.ExecContext(ctx, insertQuery); err != nil {
		return false, actual, err
	}

	if err = tx.Commit(); err != nil {
		return false, actual, err
	}

	return false, actual, nil
}

func (es EventStore) buildAppendQueries(filter eventstore.Filter, events eventstore.StorableEvents) (string, string, error) {
	maxSeqQuery, _, err := es.addWhereClause(filter, es.builder().
		From(es.eventTableName).
		Select(goqu.COALESCE(goqu.MAX(colSequenceNumber), 0))).
		ToSQL()

	if err != nil {
		return "", "", errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	rows := make([]any, 0, len(events))
	for _, event := range events {
		rows = append(rows, goqu.Record{
			colEventType:  event.EventType,
			colOccurredAt: event.OccurredAt.UnixMicro(),
			colPayload:    string(event.PayloadJSON),
			colMetadata:   string(event.MetadataJSON),
		})
	}

	insertQuery, _, err := es.builder().Insert(es.eventTableName).Rows(rows...).ToSQL()
	if err != nil {
		return "", "", errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	return maxSeqQuery, insertQuery, nil
}

func (es EventStore) addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) *goqu.SelectDataset {
	itemsExpressions := make([]goqu.Expression, 0)

	for _, item := range filter.Items() {
		itemExpressions := make([]goqu.Expression, 0, 2)

		if len(item.EventTypes()) > 0 {
			itemExpressions = append(itemExpressions, goqu.C(colEventType).In(item.EventTypes()))
		}

		predicateExpressions := make([]goqu.Expression, 0)
		for _, predicate := range item.Predicates() {
			predicateExpressions = append(predicateExpressions, goqu.L(jsonExtractEquals, "$."+predicate.Key(), predicate.Val()))
		}

		if len(predicateExpressions) > 0 {
			var predicatesExpressionList exp.ExpressionList

			if item.AllPredicatesMustMatch() {
				predicatesExpressionList = goqu.And(predicateExpressions...)
			} else {
				predicatesExpressionList = goqu.Or(predicateExpressions...)
			}

			itemExpressions = append(itemExpressions, predicatesExpressionList)
		}

		if len(itemExpressions) > 0 {
			itemsExpressions = append(itemsExpressions, goqu.And(itemExpressions...))
		}
	}

	if len(itemsExpressions) > 0 {
		selectStmt = selectStmt.Where(goqu.Or(itemsExpressions...))
	}

	if !filter.OccurredFrom().IsZero() {
		selectStmt = selectStmt.Where(goqu.C(colOccurredAt).Gte(filter.OccurredFrom().UnixMicro()))
	}

	if !filter.OccurredUntil().IsZero() {
		selectStmt = selectStmt.Where(goqu.C(colOccurredAt).Lte(filter.OccurredUntil().UnixMicro()))
	}

	return selectStmt
}

func (es EventStore) builder() goqu.DialectWrapper {
	return goqu.Dialect(dialectSQLite)
}

func (es EventStore) labels(operation string, status string) map[string]string {
	return map[string]string{
		eventstore.LabelEngine:    engineName,
		eventstore.LabelOperation: operation,
		eventstore.LabelStatus:    status,
	}
}

func (es EventStore) recordOperation(ctx context.Context, operation string, status string, duration time.Duration) {
	metric := eventstore.MetricQueryDuration
	if operation == logActionAppend {
		metric = eventstore.MetricAppendDuration
	}

	eventstore.RecordDuration(ctx, es.metricsCollector, metric, duration, es.labels(operation, status))
}

func (es EventStore) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if es.logger != nil {
		es.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

func (es EventStore) logOperation(action string, args ...any) {
	if es.logger != nil {
		es.logger.Info(logMsgOperation+action, args...)
	}
}

func (es EventStore) logError(msg string, args ...any) {
	if es.logger != nil {
		es.logger.Error(msg, args...)
	}
}

func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
