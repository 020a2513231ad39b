// Package coordination keeps several lendingd instances from doing the same background work twice.
//
// RedisLocker elects one sweeper per tick. RedisDeduper remembers which due-soon reminders went out.
// Both have in-process counterparts for single instance deployments without Redis.
package coordination
