// Package kafka 提供了入站消息任务队列的 Kafka 实现。
// 仅在多实例部署（kafka.enabled=true）时使用；单实例默认走进程内队列。
package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"meteo-bot-go/internal/config"
	"meteo-bot-go/pkg/log"
	"meteo-bot-go/pkg/tasks"
)

// TaskProcessor 定义了能够处理入站消息任务的组件。
// 通过接口解耦消费者与具体的对话处理管道。
type TaskProcessor interface {
	Process(ctx context.Context, task tasks.IncomingMessage) error
}

var producer *kafka.Writer

// InitProducer 初始化 Kafka 生产者。
func InitProducer(cfg config.KafkaConfig) {
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
}

// ProduceIncomingMessage 将一条入站消息任务写入 Kafka。
// 按用户分区，保证同一用户的消息由同一消费者按序处理。
func ProduceIncomingMessage(task tasks.IncomingMessage) error {
	taskBytes, err := json.Marshal(task)
	if err != nil {
		return err
	}

	return producer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(task.UserID),
			Value: taskBytes,
		},
	)
}

// StartConsumer 启动一个 Kafka 消费者，把入站消息任务交给 processor 处理。
// 回复是尽力而为的：处理失败只记录日志并提交 offset，不做重试——
// 迟到的重试对聊天场景没有意义，用户侧已经收到了降级回复。
func StartConsumer(cfg config.KafkaConfig, processor TaskProcessor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(context.Background())
		if err != nil {
			log.Error("从 Kafka 读取消息失败", err)
			break
		}

		var task tasks.IncomingMessage
		if err := json.Unmarshal(m.Value, &task); err != nil {
			log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(m.Value))
		} else if err := processor.Process(context.Background(), task); err != nil {
			log.Errorf("处理入站消息失败: user=%s, error: %v", task.UserID, err)
		}

		if err := r.CommitMessages(context.Background(), m); err != nil {
			log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
		}
	}

	if err := r.Close(); err != nil {
		log.Errorf("关闭 Kafka 消费者失败: %v", err)
	}
}
