package common

type LocalMsgType uint32

func (lt *LocalMsgType) Type() LocalMsgType {
	return (*lt) & (0xff00)
}

func (lt *LocalMsgType) SubType() LocalMsgType {
	return (*lt) & (0x00ff)
}

// |--type--|-subtype-|
// 0000 0000 0000 0000
const (
	LocalNoUseType          LocalMsgType = 0
	LocalTrainMsg           LocalMsgType = 1 << 8
	LocalTrainMsg_EpochDone LocalMsgType = LocalTrainMsg | 1
	LocalTrainMsg_Finished  LocalMsgType = LocalTrainMsg | 2
	LocalTrainMsg_Stopped   LocalMsgType = LocalTrainMsg | 3
)

// EpochEvent is the payload of LocalTrainMsg_EpochDone.
type EpochEvent struct {
	Epoch   int
	Epochs  int
	Updates int
}

// FinishedEvent is the payload of LocalTrainMsg_Finished and LocalTrainMsg_Stopped.
type FinishedEvent struct {
	Completed int
	Requested int
	Err       error
}
