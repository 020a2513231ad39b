// Package observable decorates command and query handlers with metrics, tracing, and logging.
//
// The feature slices stay free of observability code. A wrapper is put around a handler where
// the application is composed:
//
//	handler, err := observable.NewCommandWrapper[borrowbook.Command, borrowbook.Result](
//		borrowbook.NewCommandHandler(eventStore, policy),
//		observable.WithCommandMetrics[borrowbook.Command, borrowbook.Result](collector),
//		observable.WithCommandTracing[borrowbook.Command, borrowbook.Result](tracer),
//		observable.WithCommandLogging[borrowbook.Command, borrowbook.Result](logger),
//	)
//
// Business rejections (core.IsBusinessError) are recorded with status "rejected" and logged at
// info level. Infrastructure failures are recorded with status "error" and logged at error level.
package observable
