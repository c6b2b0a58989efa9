package msgbus

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"perceptron/common"
	"perceptron/test/mock"
)

type recorder struct {
	mutex sync.Mutex
	msgs  []*BusMessage
	fail  bool
}

func (r *recorder) HandleMsgFromMsgBus(msg *BusMessage) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.msgs = append(r.msgs, msg)
	if r.fail {
		return errors.New("boom")
	}
	return nil
}

func (r *recorder) received() []*BusMessage {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]*BusMessage(nil), r.msgs...)
}

func TestPublishKeepsOrder(t *testing.T) {
	mb := NewMessageBus(mock.GetMockLogger("bus"))
	r := &recorder{}
	mb.Register(common.LocalTrainMsg_EpochDone, r)
	mb.Register(common.LocalTrainMsg_EpochDone, r)

	for i := 1; i <= 250; i++ {
		mb.Publish("run", common.LocalTrainMsg_EpochDone, common.EpochEvent{Epoch: i, Epochs: 250})
	}
	mb.Publish("run", common.LocalTrainMsg_Finished, common.FinishedEvent{Completed: 250, Requested: 250})
	mb.Reset()

	msgs := r.received()
	require.Len(t, msgs, 251)
	for i, m := range msgs[:250] {
		assert.Equal(t, "run", m.RunID)
		assert.Equal(t, i+1, m.Msg.(common.EpochEvent).Epoch)
	}
	assert.Equal(t, common.LocalTrainMsg_Finished, msgs[250].MsgType)
}

func TestUnRegisterAndNoTopic(t *testing.T) {
	l := mock.GetMockLogger("bus")
	mb := NewMessageBus(l)
	mb.Publish("run", common.LocalTrainMsg_EpochDone, nil)
	require.NotEmpty(t, l.Lines())

	r1, r2 := &recorder{}, &recorder{fail: true}
	mb.Register(common.LocalTrainMsg, r1)
	mb.Register(common.LocalTrainMsg, r2)
	mb.Publish("run", common.LocalTrainMsg_EpochDone, common.EpochEvent{Epoch: 1})
	mb.Reset()
	assert.Len(t, r1.received(), 1)
	assert.Len(t, r2.received(), 1)

	mb.Register(common.LocalTrainMsg, r1)
	mb.Register(common.LocalTrainMsg, r2)
	mb.UnRegister(common.LocalTrainMsg, r1)
	mb.Publish("run", common.LocalTrainMsg_EpochDone, common.EpochEvent{Epoch: 2})
	mb.Reset()
	assert.Len(t, r1.received(), 1)
	assert.Len(t, r2.received(), 2)

	// topics can be registered again after a reset
	r3 := &recorder{}
	mb.Register(common.LocalTrainMsg, r3)
	mb.Publish("run", common.LocalTrainMsg_Stopped, common.FinishedEvent{Completed: 1})
	mb.Reset()
	assert.Len(t, r3.received(), 1)
}
