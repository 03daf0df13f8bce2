package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"meteo-bot-go/pkg/tasks"
)

type stubBotService struct {
	mu    sync.Mutex
	seen  []string
	reply string
}

func (s *stubBotService) Reply(_ context.Context, userID, _, _ string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, userID)
	return s.reply
}

func (s *stubBotService) ProcessedTurns() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint64(len(s.seen))
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
	done chan struct{}
}

type sentMessage struct {
	to   string
	body string
}

func (s *recordingSender) SendText(_ context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMessage{to: to, body: body})
	if s.done != nil {
		s.done <- struct{}{}
	}
	return nil
}

func TestProcess_RepliesToSender(t *testing.T) {
	bot := &stubBotService{reply: "il fait beau"}
	sender := &recordingSender{}
	p := NewProcessor(bot, sender, 1, 1)

	err := p.Process(context.Background(), tasks.IncomingMessage{
		UserID: "33612345678", UserName: "Alice", Text: "météo à paris", MessageID: "wamid.abc",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"33612345678"}, bot.seen)
	require.Len(t, sender.sent, 1)
	require.Equal(t, "33612345678", sender.sent[0].to)
	require.Equal(t, "il fait beau", sender.sent[0].body)
}

func TestProcess_SendFailurePropagates(t *testing.T) {
	bot := &stubBotService{reply: "il fait beau"}
	sender := &recordingSender{err: errors.New("whatsapp api down")}
	p := NewProcessor(bot, sender, 1, 1)

	err := p.Process(context.Background(), tasks.IncomingMessage{UserID: "33612345678"})
	require.Error(t, err)
}

func TestEnqueue_DropsWhenFull(t *testing.T) {
	// 不启动 worker，队列容量 1
	p := NewProcessor(&stubBotService{}, &recordingSender{}, 1, 1)

	require.True(t, p.Enqueue(tasks.IncomingMessage{UserID: "user-1"}))
	require.False(t, p.Enqueue(tasks.IncomingMessage{UserID: "user-2"}))
}

func TestStart_ConsumesQueue(t *testing.T) {
	bot := &stubBotService{reply: "salut"}
	sender := &recordingSender{done: make(chan struct{}, 2)}
	p := NewProcessor(bot, sender, 2, 8)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	require.True(t, p.Enqueue(tasks.IncomingMessage{UserID: "user-1", Text: "bonjour"}))
	require.True(t, p.Enqueue(tasks.IncomingMessage{UserID: "user-2", Text: "bonjour"}))

	for i := 0; i < 2; i++ {
		select {
		case <-sender.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for replies to be sent")
		}
	}

	cancel()
	p.Wait()
	require.Len(t, sender.sent, 2)
}

func TestNewProcessor_Defaults(t *testing.T) {
	p := NewProcessor(&stubBotService{}, &recordingSender{}, 0, 0)
	require.Equal(t, 4, p.workers)
	require.Equal(t, 256, cap(p.queue))
}
