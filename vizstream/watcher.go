package vizstream

import (
	"sync"

	uuid "github.com/satori/go.uuid"

	"github.com/gorilla/websocket"

	"github.com/superboySB/marladona-isaac-lab/common/types"
)

// Watcher is one attached renderer connection. Writes are serialized;
// the websocket connection does not allow concurrent writers.
type Watcher struct {
	id        string
	conn      *websocket.Conn
	writelock sync.Mutex
}

func NewWatcher(conn *websocket.Conn) *Watcher {
	return &Watcher{
		id:   uuid.NewV4().String(),
		conn: conn,
	}
}

func (watcher *Watcher) GetId() string {
	return watcher.id
}

func (watcher *Watcher) WriteMessage(msg types.WireMessage) error {
	watcher.writelock.Lock()
	defer watcher.writelock.Unlock()

	return watcher.conn.WriteJSON(msg)
}

type WatcherMap struct {
	*types.SyncMap
}

func NewWatcherMap() *WatcherMap {
	return &WatcherMap{
		types.NewSyncMap(),
	}
}

func (wmap *WatcherMap) Get(id string) *Watcher {
	if res, ok := (wmap.GetGeneric(id)).(*Watcher); ok {
		return res
	}

	return nil
}

func (wmap *WatcherMap) EachWatcher(cbk func(watcher *Watcher)) {
	wmap.Each(func(id string, item interface{}) {
		if watcher, ok := item.(*Watcher); ok {
			cbk(watcher)
		}
	})
}
