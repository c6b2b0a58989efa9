package mock

import (
	"fmt"
	"sync"
)

// MockLog prints like the real logger and keeps every line for assertions.
type MockLog struct {
	Name string

	mutex sync.Mutex
	lines []string
}

func (l *MockLog) record(level, msg string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	line := fmt.Sprintf("[%s] %s %s", level, l.Name, msg)
	l.lines = append(l.lines, line)
	fmt.Println(line)
}

func (l *MockLog) Debug(args ...interface{}) {
	l.record("DEBUG", fmt.Sprint(args...))
}

func (l *MockLog) Debugf(format string, args ...interface{}) {
	l.record("DEBUG", fmt.Sprintf(format, args...))
}

func (l *MockLog) Info(args ...interface{}) {
	l.record("INFO", fmt.Sprint(args...))
}

func (l *MockLog) Infof(format string, args ...interface{}) {
	l.record("INFO", fmt.Sprintf(format, args...))
}

func (l *MockLog) Warn(args ...interface{}) {
	l.record("WARN", fmt.Sprint(args...))
}

func (l *MockLog) Warnf(format string, args ...interface{}) {
	l.record("WARN", fmt.Sprintf(format, args...))
}

func (l *MockLog) Error(args ...interface{}) {
	l.record("ERROR", fmt.Sprint(args...))
}

func (l *MockLog) Errorf(format string, args ...interface{}) {
	l.record("ERROR", fmt.Sprintf(format, args...))
}

// Lines returns a copy of everything logged so far.
func (l *MockLog) Lines() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

func GetMockLogger(name string) *MockLog {
	return &MockLog{Name: name}
}
