package logger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	sinkQueue = 1024
	sinkBatch = 50
	sinkTick  = 2 * time.Second
)

// Entry is one log line as stored in the "logs" collection.
type Entry struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Fields    bson.M    `bson:"fields,omitempty"`
}

type inserter interface {
	InsertMany(ctx context.Context, docs []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// sinkWriter batches entries onto a collection from one goroutine. Entries
// are dropped when the queue is full so logging never blocks a request.
type sinkWriter struct {
	col      inserter
	queue    chan Entry
	done     chan struct{}
	finished chan struct{}
	once     sync.Once
	tick     time.Duration
}

func newSinkWriter(col inserter, tick time.Duration) *sinkWriter {
	w := &sinkWriter{
		col:      col,
		queue:    make(chan Entry, sinkQueue),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		tick:     tick,
	}
	go w.run()
	return w
}

func (w *sinkWriter) run() {
	defer close(w.finished)
	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, sinkBatch)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, _ = w.col.InsertMany(ctx, batch)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case e := <-w.queue:
			batch = append(batch, e)
			if len(batch) == sinkBatch {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-w.done:
			for len(w.queue) > 0 {
				batch = append(batch, <-w.queue)
				if len(batch) == sinkBatch {
					flush()
				}
			}
			flush()
			return
		}
	}
}

func (w *sinkWriter) stop() {
	w.once.Do(func() { close(w.done) })
	<-w.finished
}

// MongoSink is a slog.Handler that keeps records at or above its level in
// MongoDB: checkout failures, store errors, lost image writes.
type MongoSink struct {
	w      *sinkWriter
	client *mongo.Client
	level  slog.Level
	attrs  []slog.Attr
	group  string
}

// NewMongoSink connects to uri and writes WARN and above to db.logs.
func NewMongoSink(uri, db string) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).
		SetServerSelectionTimeout(5*time.Second).
		SetMaxPoolSize(4))
	if err != nil {
		return nil, fmt.Errorf("logger: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("logger: mongo ping: %w", err)
	}

	col := client.Database(db).Collection("logs")
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "time", Value: -1}}})

	s := newMongoSink(col, slog.LevelWarn, sinkTick)
	s.client = client
	return s, nil
}

func newMongoSink(col inserter, level slog.Level, tick time.Duration) *MongoSink {
	return &MongoSink{w: newSinkWriter(col, tick), level: level}
}

func (s *MongoSink) Enabled(_ context.Context, l slog.Level) bool { return l >= s.level }

func (s *MongoSink) Handle(_ context.Context, r slog.Record) error {
	e := Entry{Time: r.Time.UTC(), Level: r.Level.String(), Msg: r.Message, Fields: bson.M{}}
	add := func(key string, v slog.Value) {
		if key == "request_id" {
			e.RequestID = v.String()
			return
		}
		e.Fields[key] = v.Resolve().Any()
	}
	for _, a := range s.attrs {
		add(a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		add(s.group+a.Key, a.Value)
		return true
	})
	if len(e.Fields) == 0 {
		e.Fields = nil
	}

	select {
	case s.w.queue <- e:
	default:
	}
	return nil
}

func (s *MongoSink) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *s
	c.attrs = append([]slog.Attr(nil), s.attrs...)
	for _, a := range attrs {
		c.attrs = append(c.attrs, slog.Attr{Key: s.group + a.Key, Value: a.Value})
	}
	return &c
}

func (s *MongoSink) WithGroup(name string) slog.Handler {
	c := *s
	c.group = s.group + name + "."
	return &c
}

// Close flushes queued entries and disconnects.
func (s *MongoSink) Close() {
	s.w.stop()
	if s.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.client.Disconnect(ctx)
	}
}
