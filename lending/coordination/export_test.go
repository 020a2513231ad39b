package coordination

import "time"

func (l *MemoryLocker) SetNow(now func() time.Time) {
	l.now = now
}

func (d *MemoryDeduper) SetNow(now func() time.Time) {
	d.now = now
}
