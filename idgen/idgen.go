package idgen

import (
	"github.com/fundwit/go-commons/types"
	"github.com/sony/sonyflake"
)

// NewWorker builds an id worker, failing at bootstrap when the machine id
// cannot be derived (no private IPv4) instead of nil-panicking on first use.
func NewWorker() *sonyflake.Sonyflake {
	w := sonyflake.NewSonyflake(sonyflake.Settings{})
	if w == nil {
		panic("sonyflake init failed: no machine id available (host has no private IPv4)")
	}
	return w
}

func NextID(idWorker *sonyflake.Sonyflake) types.ID {
	id, err := idWorker.NextID()
	if err != nil {
		panic(err)
	}
	return types.ID(id)
}
