// Package enginetest holds the behavioural contract every event store engine has to satisfy.
//
// Engine packages run it from their own tests:
//
//	func Test_SQLiteEngine_Contract(t *testing.T) {
//		enginetest.RunContractTests(t, func(t *testing.T) enginetest.EventStore {
//			return sqliteengine.NewTestEventStore(t)
//		})
//	}
package enginetest
