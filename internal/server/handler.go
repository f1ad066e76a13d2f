package server

import (
	"encoding/json"

	"github.com/dctransfer/dctransfer/common"
)

type HandlerFunc func(
	conn *SyncConn,
	pool *Pool,
	body json.RawMessage,
) (
	common.UpdateType,
	any,
	error,
)
