// Package queue 定义消息主题常量，供发布/订阅使用.
package queue

// 主题命名规范：av.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：ledger(账本)、transfer(文件转移)、file(档案)
// 动作/状态：appended、sent、resolved、uploaded、relocated、scanned

const (
	// 账本领域.
	TopicLedgerAppended = "av.ledger.appended" // 一组账本行写入完成（一个逻辑动作）

	// 文件转移领域.
	TopicTransferSent     = "av.transfer.sent"     // 文件转移已发出（含全部接收人）
	TopicTransferResolved = "av.transfer.resolved" // 某接收人已接受/拒绝

	// 档案领域.
	TopicFileUploaded  = "av.file.uploaded"  // 档案登记完成（可能含电子副本）
	TopicFileRelocated = "av.file.relocated" // 档案物理位置变更
	TopicFileScanned   = "av.file.scanned"   // 档案二维码被扫描
)
