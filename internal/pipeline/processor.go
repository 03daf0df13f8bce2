// Package pipeline 定义了入站消息的异步处理流程。
package pipeline

import (
	"context"
	"sync"

	"meteo-bot-go/internal/service"
	"meteo-bot-go/pkg/log"
	"meteo-bot-go/pkg/tasks"
)

// MessageSender 抽象了出站消息的投递，由 pkg/whatsapp.Client 实现。
type MessageSender interface {
	SendText(ctx context.Context, to, body string) error
}

// Processor 消费入站消息任务：执行一轮对话处理并把回复发回给用户。
// webhook handler 在确认回执前把任务投入队列，处理结果不影响回执——
// 队列满时任务被丢弃并记录告警，传输层永远不被阻塞。
type Processor struct {
	botService service.BotService
	sender     MessageSender

	queue   chan tasks.IncomingMessage
	workers int
	wg      sync.WaitGroup
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(botService service.BotService, sender MessageSender, workers, queueSize int) *Processor {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Processor{
		botService: botService,
		sender:     sender,
		queue:      make(chan tasks.IncomingMessage, queueSize),
		workers:    workers,
	}
}

// Start 启动 worker 协程池，消费队列直到 ctx 取消。
func (p *Processor) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case task := <-p.queue:
					if err := p.Process(ctx, task); err != nil {
						log.Errorf("处理入站消息失败: user=%s, error: %v", task.UserID, err)
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	log.Infof("消息处理池已启动, workers=%d", p.workers)
}

// Wait 阻塞直到所有 worker 退出，用于优雅停机。
func (p *Processor) Wait() {
	p.wg.Wait()
}

// Enqueue 把任务投入进程内队列。队列满时丢弃并返回 false。
func (p *Processor) Enqueue(task tasks.IncomingMessage) bool {
	select {
	case p.queue <- task:
		return true
	default:
		log.Warnf("任务队列已满，丢弃消息: user=%s, message_id=%s", task.UserID, task.MessageID)
		return false
	}
}

// Process 同步处理一条任务：跑完整轮对话并发送回复。
// 同时被进程内 worker 和 Kafka 消费者调用（见 pkg/kafka.TaskProcessor）。
func (p *Processor) Process(ctx context.Context, task tasks.IncomingMessage) error {
	reply := p.botService.Reply(ctx, task.UserID, task.UserName, task.Text)
	if err := p.sender.SendText(ctx, task.UserID, reply); err != nil {
		return err
	}
	log.Debugf("已回复用户 %s, message_id=%s", task.UserID, task.MessageID)
	return nil
}
