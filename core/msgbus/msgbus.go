package msgbus

import (
	"perceptron/common"
	"sync"
	"sync/atomic"
)

var defaultTopicSize int = 100

type BusMessage struct {
	MsgType common.LocalMsgType
	RunID   string
	Msg     interface{}
}

type Subscriber interface {
	HandleMsgFromMsgBus(msg *BusMessage) error
}

type MessageBus interface {
	Register(topic common.LocalMsgType, sub Subscriber)
	UnRegister(topic common.LocalMsgType, sub Subscriber)
	Publish(runID string, t common.LocalMsgType, payload interface{})
	// Reset delivers every queued message, then drops all topics.
	Reset()
}

type Topic interface {
	Register(sub Subscriber)
	UnRegister(sub Subscriber)
	Publish(msg *BusMessage)
	Stop()
}

// topicImpl delivers messages to its subscribers one at a time, in publish order.
type topicImpl struct {
	msgChan chan *BusMessage
	subs    atomic.Value //[]Subscriber
	mutex   sync.RWMutex

	done chan struct{}
	log  common.Logger
}

func newTopic(size int, log common.Logger) Topic {
	t := &topicImpl{
		msgChan: make(chan *BusMessage, size),
		done:    make(chan struct{}),
		log:     log,
	}
	t.subs.Store([]Subscriber{})
	go t.handlePublish()
	return t
}

func (t *topicImpl) Register(sub Subscriber) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	subs := t.subs.Load().([]Subscriber)
	for _, s := range subs {
		if s == sub {
			return
		}
	}
	newSubs := make([]Subscriber, 0, len(subs)+1)
	newSubs = append(newSubs, subs...)
	t.subs.Store(append(newSubs, sub))
}

func (t *topicImpl) UnRegister(sub Subscriber) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	subs := t.subs.Load().([]Subscriber)
	for i, s := range subs {
		if s == sub {
			newSubs := make([]Subscriber, 0, len(subs)-1)
			newSubs = append(newSubs, subs[:i]...)
			t.subs.Store(append(newSubs, subs[i+1:]...))
			return
		}
	}
}

func (t *topicImpl) Publish(msg *BusMessage) {
	t.msgChan <- msg
}

// Stop waits until every queued message was handled.
func (t *topicImpl) Stop() {
	close(t.msgChan)
	<-t.done
}

func (t *topicImpl) handlePublish() {
	defer close(t.done)
	for msg := range t.msgChan {
		subs := t.subs.Load().([]Subscriber)
		for _, sub := range subs {
			if err := sub.HandleMsgFromMsgBus(msg); err != nil {
				t.log.Warnf("subscriber failed on msg[%d]: %s", msg.MsgType, err)
			}
		}
	}
}

type messageBusImpl struct {
	topics sync.Map //first class LocalMsgType -> Topic
	mutex  sync.Mutex
	log    common.Logger
}

func NewMessageBus(log common.Logger) MessageBus {
	return &messageBusImpl{log: log}
}

func (mb *messageBusImpl) Register(topic common.LocalMsgType, sub Subscriber) {
	mb.mutex.Lock()
	defer mb.mutex.Unlock()

	firstClassTopic := topic.Type()
	if v, ok := mb.topics.Load(firstClassTopic); ok {
		v.(Topic).Register(sub)
		return
	}
	t := newTopic(defaultTopicSize, mb.log)
	t.Register(sub)
	mb.topics.Store(firstClassTopic, t)
}

func (mb *messageBusImpl) UnRegister(topic common.LocalMsgType, sub Subscriber) {
	firstClassTopic := topic.Type()
	v, ok := mb.topics.Load(firstClassTopic)
	if !ok {
		return
	}
	v.(Topic).UnRegister(sub)
}

// Publish blocks while the topic queue is full so that order is kept.
func (mb *messageBusImpl) Publish(runID string, topic common.LocalMsgType, msg interface{}) {
	mb.mutex.Lock()
	defer mb.mutex.Unlock()

	firstClassTopic := topic.Type()
	v, ok := mb.topics.Load(firstClassTopic)
	if !ok {
		mb.log.Debugf("no subscriber for topic[%d], msg dropped", firstClassTopic)
		return
	}
	v.(Topic).Publish(&BusMessage{topic, runID, msg})
}

func (mb *messageBusImpl) Reset() {
	mb.mutex.Lock()
	defer mb.mutex.Unlock()

	mb.topics.Range(func(k, v interface{}) bool {
		v.(Topic).Stop()
		mb.topics.Delete(k)
		return true
	})
}
