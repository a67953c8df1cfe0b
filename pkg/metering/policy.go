// Package metering holds the pure entitlement rules shared by the metering
// service and its tests. Nothing in here touches storage.
package metering

// Counter names one metered dimension of a plan.
type Counter string

const (
	CounterUpload Counter = "upload"
	CounterClip   Counter = "clip"
)

// Limits of a package. A negative value means the counter is unlimited.
type Limits struct {
	Upload int
	Clip   int
}

// Counters observed on the current usage row.
type Counters struct {
	Upload int
	Clip   int
}

type Verdict struct {
	Allowed   bool
	BlockedBy Counter
	Limit     int
	Used      int
}

// Policy decides whether one more unit of a counter may be consumed.
//
// With Coupled set, a request is also denied when any other limited counter is
// exhausted, so a user who used up clips cannot upload either.
type Policy struct {
	Coupled bool
}

func DefaultPolicy() Policy {
	return Policy{Coupled: true}
}

func (p Policy) Evaluate(requested Counter, limits Limits, used Counters) Verdict {
	limit, count := pick(requested, limits, used)
	if exhausted(limit, count) {
		return Verdict{BlockedBy: requested, Limit: limit, Used: count}
	}

	if p.Coupled {
		for _, other := range []Counter{CounterUpload, CounterClip} {
			if other == requested {
				continue
			}
			l, c := pick(other, limits, used)
			if exhausted(l, c) {
				return Verdict{BlockedBy: other, Limit: l, Used: c}
			}
		}
	}

	return Verdict{Allowed: true, Limit: limit, Used: count}
}

// Remaining reports how many more units fit under limit, or -1 when unlimited.
func Remaining(limit, used int) int {
	if limit < 0 {
		return -1
	}
	if used >= limit {
		return 0
	}
	return limit - used
}

func exhausted(limit, used int) bool {
	return limit >= 0 && used >= limit
}

func pick(c Counter, limits Limits, used Counters) (int, int) {
	switch c {
	case CounterUpload:
		return limits.Upload, used.Upload
	case CounterClip:
		return limits.Clip, used.Clip
	}
	return 0, 0
}
