package main

import (
	"bufio"
	"io"
	"os"
	"os/signal"

	"github.com/bitly/go-simplejson"
	"github.com/disgoorg/disgo/gateway"
	"github.com/fuad-daoud/discord-mirror/decoder"
	"github.com/fuad-daoud/discord-mirror/events"
	mirrorhttp "github.com/fuad-daoud/discord-mirror/http"
	"github.com/fuad-daoud/discord-mirror/logger/dlog"
	"github.com/fuad-daoud/discord-mirror/platform"
	"github.com/fuad-daoud/discord-mirror/state"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"golang.org/x/net/context"
)

const (
	opDispatch = 0
	opHello    = 10
)

var (
	framesPath string
	shardID    int
	queueSize  int
	serve      bool
)

func main() {
	root := &cobra.Command{
		Use:   "mirror",
		Short: "Maintain a local mirror of a gateway's object graph",
	}

	replay := &cobra.Command{
		Use:   "replay",
		Short: "Feed NDJSON gateway frames through the synchronization core",
		RunE:  runReplay,
	}
	replay.Flags().StringVarP(&framesPath, "frames", "f", "-", "NDJSON frames file, - for stdin")
	replay.Flags().IntVar(&shardID, "shard", 0, "shard the frames were recorded from")
	replay.Flags().IntVar(&queueSize, "queue", 64, "sink queue size")
	replay.Flags().BoolVar(&serve, "serve", false, "keep serving /status on PORT after the replay")
	root.AddCommand(replay)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

type helloFrame struct {
	HeartbeatInterval float64 `mapstructure:"heartbeat_interval"`
}

type countingListener struct {
	count *int
}

func (l countingListener) OnEvent(events.Event) {
	(*l.count)++
}

// replayFrames scans NDJSON gateway frames and feeds dispatch payloads through
// the synchronization core. Unparsable frames and dropped payloads are logged
// and skipped; only a read failure aborts the replay.
func replayFrames(dispatcher *platform.Dispatcher, shardID int, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		frame, err := simplejson.NewJson(line)
		if err != nil {
			dlog.Error("skipping unparsable frame", "err", err)
			continue
		}
		switch op := frame.Get("op").MustInt(); op {
		case opDispatch:
			eventType := gateway.EventType(frame.Get("t").MustString())
			data, err := frame.Get("d").Encode()
			if err != nil {
				dlog.Error("skipping frame with unencodable payload", "eventType", eventType, "err", err)
				continue
			}
			if err := dispatcher.HandleEvent(shardID, eventType, data); err != nil {
				dlog.Warn("payload dropped", "eventType", eventType, "err", err)
			}
		case opHello:
			var hello helloFrame
			if err := mapstructure.Decode(frame.Get("d").MustMap(), &hello); err == nil {
				dlog.Info("hello frame", "heartbeatInterval", hello.HeartbeatInterval)
			}
		default:
			dlog.Debug("ignoring control frame", "op", op)
		}
	}
	return scanner.Err()
}

func runReplay(cmd *cobra.Command, args []string) error {
	caches := state.NewCaches()

	dispatched := 0
	sink := platform.NewAsyncSink(queueSize,
		countingListener{count: &dispatched},
		platform.ListenerFunc(func(e *events.Ready) {
			dlog.Info("session ready", "user", e.User.Username, "guilds", len(e.Guilds))
		}),
		platform.ListenerFunc(func(e *events.GuildCreate) {
			dlog.Info("guild snapshot applied", "guild", e.Guild.ID, "name", e.Guild.Name)
		}),
	)
	dispatcher := platform.NewDispatcher(caches, decoder.JSON{}, sink)

	in := os.Stdin
	if framesPath != "-" {
		file, err := os.Open(framesPath)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}

	dispatcher.OnConnected(shardID)

	if err := replayFrames(dispatcher, shardID, in); err != nil {
		return err
	}

	dispatcher.OnDisconnected(shardID)
	if err := sink.Close(context.Background()); err != nil {
		return err
	}

	stats := caches.Stats()
	dlog.Info("replay finished",
		"dispatched", dispatched,
		"guilds", stats.Guilds,
		"unavailableGuilds", stats.UnavailableGuilds,
		"channels", stats.Channels,
		"roles", stats.Roles,
		"members", stats.Members,
	)

	if serve {
		go mirrorhttp.Setup(caches)
		dlog.Info("Serving /status. Press CTRL-C to exit.")
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt)
		<-stop
		dlog.Info("Graceful shutdown")
	}
	return nil
}
