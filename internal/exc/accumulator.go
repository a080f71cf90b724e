// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import "sync"

// Reporter is used to accumulate and report errors during option resolution,
// compilation and generation. Processes can decide to report an error but
// continue rather than fail outright. Codes registered as non-fatal are kept
// as warnings and Report returns nil for them.
type Reporter interface {
	// Report adds the given record to the set. If this method returns an error
	// then the given error is considered fatal.
	Report(Exception) Exception
	// Reported returns the set of accumulated exceptions in report order.
	Reported() []Exception
	// Warnings returns only the accumulated non-fatal exceptions.
	Warnings() []Exception
	// Errors returns only the accumulated fatal exceptions.
	Errors() []Exception
}

// NewReporter returns a concurrent-safe implementation of Reporter. The given
// codes are treated as non-fatal in addition to the package defaults.
func NewReporter(nonFatal []string) Reporter {
	nf := make(map[string]bool, len(defaultNonFatal)+len(nonFatal))
	for k := range defaultNonFatal {
		nf[k] = true
	}
	for _, k := range nonFatal {
		nf[k] = true
	}
	return &reporterLock{
		Reporter: &reporter{
			nonFatal: nf,
		},
		lock: &sync.Mutex{},
	}
}

type reporter struct {
	reported []Exception
	nonFatal map[string]bool
}

func (r *reporter) Report(e Exception) Exception {
	r.reported = append(r.reported, e)
	if r.nonFatal[e.Code()] {
		return nil
	}
	return e
}

func (r *reporter) Reported() []Exception {
	out := make([]Exception, len(r.reported))
	copy(out, r.reported)
	return out
}

func (r *reporter) Warnings() []Exception {
	return r.filter(true)
}

func (r *reporter) Errors() []Exception {
	return r.filter(false)
}

func (r *reporter) filter(nonFatal bool) []Exception {
	var out []Exception
	for _, e := range r.reported {
		if r.nonFatal[e.Code()] == nonFatal {
			out = append(out, e)
		}
	}
	return out
}

type reporterLock struct {
	Reporter
	lock sync.Locker
}

func (r *reporterLock) Report(e Exception) Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Report(e)
}

func (r *reporterLock) Reported() []Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Reported()
}

func (r *reporterLock) Warnings() []Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Warnings()
}

func (r *reporterLock) Errors() []Exception {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Reporter.Errors()
}
