package vizstream

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/superboySB/marladona-isaac-lab/common/healthcheck"
	"github.com/superboySB/marladona-isaac-lab/common/types"
	"github.com/superboySB/marladona-isaac-lab/common/utils"
)

// InitProvider yields the init message sent to every watcher when it
// attaches; it is called once per connection.
type InitProvider func() types.VizInit

// VizService streams value frames to every attached renderer over
// websocket, and exposes the health of the play loop.
type VizService struct {
	addr         string
	pool         *WatcherMap
	initprovider InitProvider
	server       *http.Server
	listener     net.Listener
}

func NewVizService(addr string, initprovider InitProvider) *VizService {
	return &VizService{
		addr:         addr,
		pool:         NewWatcherMap(),
		initprovider: initprovider,
	}
}

// Start binds the listener and serves in the background. The returned
// channel carries the terminal serve error, if any.
func (viz *VizService) Start() (chan error, error) {
	logger := os.Stdout

	hc := healthcheck.NewHealthCheck()
	hc.Register("websocket", func() (err error, ok bool) {
		return nil, true
	})

	router := mux.NewRouter()
	router.Handle("/ws", handlers.CombinedLoggingHandler(logger,
		http.HandlerFunc(viz.websocketHandler),
	)).Methods("GET")
	router.Handle("/health", handlers.CombinedLoggingHandler(logger,
		http.HandlerFunc(hc.HttpHandler),
	)).Methods("GET")

	listener, err := net.Listen("tcp", viz.addr)
	if err != nil {
		return nil, err
	}

	viz.listener = listener
	viz.server = &http.Server{Handler: router}

	log.Println("VIZ Listening on " + viz.Addr())

	servererror := make(chan error, 1)
	go func() {
		if err := viz.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			servererror <- err
		}
		close(servererror)
	}()

	return servererror, nil
}

// Addr returns the bound address, useful when the service was started
// on port 0.
func (viz *VizService) Addr() string {
	if viz.listener != nil {
		return viz.listener.Addr().String()
	}

	return viz.addr
}

func (viz *VizService) NumberWatchers() int {
	return viz.pool.Size()
}

func (viz *VizService) websocketHandler(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}

	watcher := NewWatcher(c)

	initmsg, err := types.MakeWireMessage(types.WireTypeInit, viz.initprovider())
	if err != nil {
		utils.Debug("viz-service", "Could not build init message;"+err.Error())
		c.Close()
		return
	}

	if err := watcher.WriteMessage(initmsg); err != nil {
		utils.Debug("viz-service", "Could not send init message;"+err.Error())
		c.Close()
		return
	}

	viz.pool.Set(watcher.GetId(), watcher)

	defer func() {
		viz.pool.Remove(watcher.GetId())
		c.Close()
		utils.DebugWith("viz-service", "Watcher detached", utils.Context{
			"watcher":   watcher.GetId(),
			"remaining": viz.pool.Size(),
		})
	}()

	// renderers never send application messages; reading is still
	// mandatory to notice the peer going away
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish fans the frame out to every watcher. A watcher whose write
// fails is dropped from the pool.
func (viz *VizService) Publish(frame *types.VizFrame) {
	msg, err := types.MakeWireMessage(types.WireTypeFrame, frame)
	if err != nil {
		utils.Debug("viz-service", "Could not encode frame;"+err.Error())
		return
	}

	viz.broadcast(msg)
}

// PublishShutdown tells every watcher the stream is over.
func (viz *VizService) PublishShutdown() {
	msg, _ := types.MakeWireMessage(types.WireTypeShutdown, nil)
	viz.broadcast(msg)
}

func (viz *VizService) broadcast(msg types.WireMessage) {
	viz.pool.EachWatcher(func(watcher *Watcher) {
		if err := watcher.WriteMessage(msg); err != nil {
			utils.Debug("viz-service", "Dropping watcher "+watcher.GetId()+";"+err.Error())
			viz.pool.Remove(watcher.GetId())
			watcher.conn.Close()
		}
	})
}

// StreamFrames forwards every frame from the observer channel to the
// watchers; when the channel closes it publishes the shutdown message.
func (viz *VizService) StreamFrames(observer chan *types.VizFrame) {
	for frame := range observer {
		viz.Publish(frame)
	}

	viz.PublishShutdown()
}

func (viz *VizService) Stop() {
	viz.pool.EachWatcher(func(watcher *Watcher) {
		viz.pool.Remove(watcher.GetId())
		watcher.conn.Close()
	})

	if viz.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		viz.server.Shutdown(ctx)
	}
}
