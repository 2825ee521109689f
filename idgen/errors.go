package idgen

import (
	"fmt"

	"github.com/ceyewan/superflake/xerrors"
)

var (
	// ErrInvalidNodeID 节点 ID 超出 10 bit 范围 [0, 1023]
	ErrInvalidNodeID = fmt.Errorf("idgen: node id out of range: %w", xerrors.ErrInvalidInput)

	// ErrClockBeforeEpoch 时间戳早于 epoch
	ErrClockBeforeEpoch = xerrors.New("idgen: timestamp is before epoch")

	// ErrTimestampOverflow 时间戳距 epoch 超过 42 bit 可表示的范围（约 139 年）
	ErrTimestampOverflow = xerrors.New("idgen: timestamp overflows 42 bits")
)
