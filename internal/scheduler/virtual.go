package scheduler

import (
	"time"
)

// Virtual is a manually advanced clock with the same Start/Cancel surface as Timers.
// It drives replays and deterministic tests. It is not safe for concurrent use.
type Virtual struct {
	now    time.Time
	seq    uint64
	timers map[string]*virtualTimer
}

type virtualTimer struct {
	due      time.Time
	interval time.Duration
	repeat   bool
	fire     func()
	seq      uint64
}

func NewVirtual(start time.Time) *Virtual {
	return &Virtual{
		now:    start,
		timers: make(map[string]*virtualTimer),
	}
}

func (v *Virtual) Now() time.Time {
	return v.now
}

func (v *Virtual) Start(key string, interval time.Duration, repeat bool, fire func()) {
	v.seq++
	v.timers[key] = &virtualTimer{
		due:      v.now.Add(interval),
		interval: interval,
		repeat:   repeat,
		fire:     fire,
		seq:      v.seq,
	}
}

func (v *Virtual) Cancel(key string) {
	delete(v.timers, key)
}

func (v *Virtual) Active(key string) bool {
	_, ok := v.timers[key]
	return ok
}

func (v *Virtual) Advance(d time.Duration) {
	v.AdvanceTo(v.now.Add(d))
}

// AdvanceTo fires every timer due up to and including target, earliest first,
// then sets the clock to target. Moving backwards is a no-op.
func (v *Virtual) AdvanceTo(target time.Time) {
	if target.Before(v.now) {
		return
	}
	for {
		key, next := v.nextDue(target)
		if next == nil {
			break
		}
		v.now = next.due
		if next.repeat {
			next.due = next.due.Add(next.interval)
		} else {
			delete(v.timers, key)
		}
		next.fire()
	}
	v.now = target
}

func (v *Virtual) nextDue(target time.Time) (string, *virtualTimer) {
	var (
		key  string
		next *virtualTimer
	)
	for k, t := range v.timers {
		if t.due.After(target) {
			continue
		}
		if next == nil || t.due.Before(next.due) || (t.due.Equal(next.due) && t.seq < next.seq) {
			key, next = k, t
		}
	}
	return key, next
}
