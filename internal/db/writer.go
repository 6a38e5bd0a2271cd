package db

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	batchSize     = 50
	flushInterval = 500 * time.Millisecond
)

// BatchWriter drains a shot buffer into the database, flushing every 50
// shots or every 500ms, whichever comes first.
func BatchWriter(ctx context.Context, database *DB, buffer <-chan ShotEvent) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]ShotEvent, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := database.BatchRecordShots(batch); err != nil {
			log.Printf("[DB] BatchRecordShots error: %v\n", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case ev := <-buffer:
					batch = append(batch, ev)
				default:
					flush()
					return
				}
			}
		case ev := <-buffer:
			batch = append(batch, ev)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// StartShotWriter runs BatchWriter in the background. The returned stop
// function drains the buffer, waits for the final flush and then closes
// the database.
func (d *DB) StartShotWriter(buffer <-chan ShotEvent) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		BatchWriter(ctx, d, buffer)
		close(done)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
			if err := d.Close(); err != nil {
				log.Printf("[DB] Close error: %v\n", err)
			}
		})
	}
}
