package trace

import (
	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/hooking"
)

// accessTable is where sampled accesses are recorded.
const accessTable = "cache_accesses"

// accessEntry is one sampled access in the database.
type accessEntry struct {
	Cache    string
	Address  uint64
	Type     string
	SetIndex uint64
	Hit      bool
}

// A DBHook records cache accesses through a DataRecorder. A sampling
// period of n keeps one access out of every n, so the database stays
// manageable on traces with millions of accesses.
type DBHook struct {
	recorder datarecording.DataRecorder
	period   uint64
	seen     uint64
}

// NewDBHook creates a hook that records every samplingPeriod-th access
// into recorder. A period of 0 records every access.
func NewDBHook(
	recorder datarecording.DataRecorder,
	samplingPeriod uint64,
) *DBHook {
	if samplingPeriod == 0 {
		samplingPeriod = 1
	}

	recorder.CreateTable(accessTable, accessEntry{})

	return &DBHook{
		recorder: recorder,
		period:   samplingPeriod,
	}
}

// Func implements hooking.Hook. It runs on both the hit and the miss
// hook positions.
func (h *DBHook) Func(ctx hooking.HookCtx) {
	h.seen++
	if h.seen%h.period != 0 {
		return
	}

	info := ctx.Item.(cache.AccessInfo)
	c := ctx.Domain.(*cache.Cache)

	h.recorder.InsertData(accessTable, accessEntry{
		Cache:    c.Name(),
		Address:  info.Address,
		Type:     info.Type.String(),
		SetIndex: info.SetIndex,
		Hit:      info.Hit,
	})
}
