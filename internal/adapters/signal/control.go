package signal

import "github.com/dkeye/Relay/internal/app/orch"

func (ctl *SignalWSController) handlePing(
	conn *WsSignalConn,
) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: orch.EventPong,
	}
	ctl.sendJSON(conn, resp)
}
