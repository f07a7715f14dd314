package plotter

import (
	"encoding/json"
	"net/http"

	"github.com/cenkalti/backoff"
	"github.com/gorilla/websocket"
	bettererrors "github.com/xtuc/better-errors"

	"github.com/superboySB/marladona-isaac-lab/common/types"
	"github.com/superboySB/marladona-isaac-lab/common/utils"
	"github.com/superboySB/marladona-isaac-lab/common/visualization"
)

// StreamClient attaches to the play loop's frame stream and funnels the
// frames into an Inbox. When the stream ends, for any reason, it puts
// the sentinel so the renderer tears down.
type StreamClient struct {
	addr  string
	conn  *websocket.Conn
	inbox *visualization.Inbox
	init  types.VizInit
}

// Dial connects to the stream service, retrying with exponential
// backoff while the play loop is still coming up, and performs the init
// handshake.
func Dial(addr string) (*StreamClient, error) {
	client := &StreamClient{
		addr:  addr,
		inbox: visualization.NewInbox(),
	}

	connect := func() error {
		conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", http.Header{})
		if err != nil {
			utils.DebugWith("plotter", "Stream not up yet, retrying", utils.Context{
				"addr":  addr,
				"cause": err.Error(),
			})
			return err
		}

		client.conn = conn
		return nil
	}

	if err := backoff.Retry(connect, backoff.NewExponentialBackOff()); err != nil {
		return nil, bettererrors.
			New("Cannot reach the play loop stream").
			SetContext("addr", addr).
			With(bettererrors.NewFromErr(err))
	}

	initmsg, err := client.readWire()
	if err != nil {
		client.conn.Close()
		return nil, bettererrors.
			New("Stream closed during the init handshake").
			With(bettererrors.NewFromErr(err))
	}

	if initmsg.Type != types.WireTypeInit {
		client.conn.Close()
		return nil, bettererrors.
			New("Unexpected first message on the stream").
			SetContext("type", initmsg.Type)
	}

	if err := json.Unmarshal(initmsg.Data, &client.init); err != nil {
		client.conn.Close()
		return nil, bettererrors.
			New("Malformed init message").
			With(bettererrors.NewFromErr(err))
	}

	go client.listen()

	return client, nil
}

func (client *StreamClient) Init() types.VizInit {
	return client.init
}

func (client *StreamClient) Inbox() *visualization.Inbox {
	return client.inbox
}

func (client *StreamClient) Close() {
	client.conn.Close()
}

func (client *StreamClient) readWire() (types.WireMessage, error) {
	var msg types.WireMessage

	_, raw, err := client.conn.ReadMessage()
	if err != nil {
		return msg, err
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return msg, err
	}

	return msg, nil
}

// listen pumps stream messages into the inbox until the stream ends.
func (client *StreamClient) listen() {
	defer client.inbox.Put(visualization.Sentinel)

	for {
		msg, err := client.readWire()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err) {
				utils.Debug("plotter", "Stream connection lost")
			}
			return
		}

		switch msg.Type {
		case types.WireTypeFrame:
			frame := &types.VizFrame{}
			if err := json.Unmarshal(msg.Data, frame); err != nil {
				utils.Debug("plotter", "Dropping malformed frame;"+err.Error())
				continue
			}
			client.inbox.Put(frame)
		case types.WireTypeShutdown:
			return
		default:
			utils.Debug("plotter", "Ignoring message of type "+msg.Type)
		}
	}
}
