package main

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brutella/can"
	"github.com/go-redis/redis/v8"
)

// fakeRedis speaks just enough RESP to acknowledge SUBSCRIBE and push messages.
type fakeRedis struct {
	ln         net.Listener
	mu         sync.Mutex
	conns      []net.Conn
	subscriber net.Conn
	subscribed chan struct{}
}

func startFakeRedis(t *testing.T) *fakeRedis {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := &fakeRedis{ln: ln, subscribed: make(chan struct{})}
	go s.accept()
	t.Cleanup(s.close)
	return s
}

func (s *fakeRedis) accept() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		go s.serve(conn)
	}
}

func (s *fakeRedis) serve(conn net.Conn) {
	r := bufio.NewReader(conn)
	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}

		if strings.EqualFold(args[0], "subscribe") {
			s.mu.Lock()
			for i, ch := range args[1:] {
				fmt.Fprintf(conn, "*3\r\n$9\r\nsubscribe\r\n$%d\r\n%s\r\n:%d\r\n", len(ch), ch, i+1)
			}
			first := s.subscriber == nil
			s.subscriber = conn
			s.mu.Unlock()
			if first {
				close(s.subscribed)
			}
			continue
		}
		fmt.Fprint(conn, "+OK\r\n")
	}
}

func (s *fakeRedis) publish(channel, payload string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.subscriber, "*3\r\n$7\r\nmessage\r\n$%d\r\n%s\r\n$%d\r\n%s\r\n",
		len(channel), channel, len(payload), payload)
}

func (s *fakeRedis) close() {
	s.ln.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		c.Close()
	}
}

func readCommand(r *bufio.Reader) ([]string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "*") {
		return strings.Fields(line), nil
	}

	n, err := strconv.Atoi(line[1:])
	if err != nil {
		return nil, err
	}
	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		hdr, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		size, err := strconv.Atoi(strings.TrimRight(hdr, "\r\n")[1:])
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

type frameChan chan can.Frame

func (c frameChan) Handle(frame can.Frame) {
	c <- frame
}

func TestIPCRx_ReceivesAndShutsDown(t *testing.T) {
	server := startFakeRedis(t)

	client := redis.NewClient(&redis.Options{Addr: server.ln.Addr().String()})
	defer client.Close()

	keys := RedisKeys{Prefix: "test"}
	frames := make(frameChan, 4)
	rx := NewIPCRx(newTestLogger(), client, keys, frames)

	select {
	case <-server.subscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("no SUBSCRIBE received")
	}

	server.publish(keys.RawChannel(), "1768509351014 0x650: 60 00 00 00 00 00 00 00")

	select {
	case f := <-frames:
		if f.ID != 0x650 || f.Length != 8 || f.Data[0] != 0x60 {
			t.Errorf("unexpected frame %+v", f)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("frame not delivered")
	}

	rx.Destroy()

	select {
	case <-rx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription loop did not exit after Destroy")
	}
}
