package host

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/jmylchreest/uisync/internal/model"
)

const maxFrameSize = 1024 * 1024

// ErrFrameTooLarge is logged for host lines longer than maxFrameSize.
var ErrFrameTooLarge = errors.New("host frame too large")

// HostPublisher receives inbound frames read from the host.
type HostPublisher interface {
	PublishHostFrame(f model.HostFrame) error
	RequestNews() error
}

// ReadFrames reads one JSON HostFrame per line from r and publishes it.
// A frame with no changes or events and request_news set is sent as a
// plain news request. Malformed lines are logged and skipped. ReadFrames
// returns nil at EOF or when ctx is done.
func ReadFrames(ctx context.Context, r io.Reader, pub HostPublisher, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	type hostLine struct {
		data      []byte
		oversized bool
	}
	lines := make(chan hostLine)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		br := bufio.NewReaderSize(r, 64*1024)
		for {
			data, oversized, err := readLine(br, maxFrameSize)
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				readErr <- err
				return
			}
			select {
			case lines <- hostLine{data: data, oversized: oversized}:
			case <-ctx.Done():
				return
			}
		}
	}()

	lineNum := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read host frames: %w", err)
					}
				default:
				}
				return nil
			}
			lineNum++
			if line.oversized {
				logger.Warn("skipping host line", "line", lineNum, "error", ErrFrameTooLarge, "limit", maxFrameSize)
				continue
			}
			if len(line.data) == 0 {
				continue
			}
			if err := publishLine(line.data, pub); err != nil {
				logger.Warn("skipping host line", "line", lineNum, "error", err)
			}
		}
	}
}

// readLine returns the next line without its line ending. A line longer
// than limit is read through to its newline and returned empty with
// oversized set. The final line may lack a newline.
func readLine(br *bufio.Reader, limit int) ([]byte, bool, error) {
	var line []byte
	oversized := false
	n := 0
	for {
		chunk, err := br.ReadSlice('\n')
		n += len(bytes.TrimRight(chunk, "\r\n"))
		if !oversized {
			if n > limit {
				oversized = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == nil, errors.Is(err, io.EOF) && (n > 0 || len(chunk) > 0):
			return bytes.TrimRight(line, "\r\n"), oversized, nil
		default:
			return nil, false, err
		}
	}
}

func publishLine(line []byte, pub HostPublisher) error {
	var f model.HostFrame
	if err := json.Unmarshal(line, &f); err != nil {
		return err
	}
	if f.IsEmpty() && f.RequestNews {
		return pub.RequestNews()
	}
	if f.ID == "" {
		id, err := model.NewFrameID()
		if err != nil {
			return err
		}
		f.ID = id
	}
	return pub.PublishHostFrame(f)
}

// WriteNews writes each news frame from msgs to w as one JSON line, acking
// every message. It returns when ctx is done or msgs is closed.
func WriteNews(ctx context.Context, w io.Writer, msgs <-chan *message.Message, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	enc := json.NewEncoder(w)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			err := writeMessage(enc, msg)
			msg.Ack()
			if err != nil {
				return err
			}
		}
	}
}

func writeMessage(enc *json.Encoder, msg *message.Message) error {
	env, err := ParseEnvelope(msg)
	if err != nil {
		return err
	}
	if env.Type != TypeNewsFrame {
		return nil
	}
	var f model.NewsFrame
	if err := env.Decode(&f); err != nil {
		return err
	}
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("write news frame: %w", err)
	}
	return nil
}
