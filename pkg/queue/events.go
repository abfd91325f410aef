package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishTransferSent 发布 av.transfer.sent 事件.
// 在转移事务提交成功后调用，通知下游（看板、提醒推送等）.
func PublishTransferSent(pub message.Publisher, payload TransferSentPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicTransferSent, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicTransferSent, msg)
}

// ParseTransferSent 将 Watermill 消息解析为强类型 Envelope（TransferSentPayload）.
func ParseTransferSent(msg *message.Message) (Message[TransferSentPayload], error) {
	return ParseWatermillMessage[TransferSentPayload](msg)
}

// PublishTransferResolved 发布 av.transfer.resolved 事件.
func PublishTransferResolved(pub message.Publisher, payload TransferResolvedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicTransferResolved, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicTransferResolved, msg)
}

// PublishLedgerAppended 发布 av.ledger.appended 事件.
func PublishLedgerAppended(pub message.Publisher, payload LedgerAppendedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicLedgerAppended, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicLedgerAppended, msg)
}
