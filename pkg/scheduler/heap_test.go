package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWaitingTask(name string, next time.Time) *OnceTask {
	return NewOnceTask(name, next, time.Second, nil)
}

// TestTaskHeap_OrderedByNextTime 测试堆按下次执行时间排序
func TestTaskHeap_OrderedByNextTime(t *testing.T) {
	h := NewTaskHeap()
	now := time.Now()

	h.SafePush(newWaitingTask("later", now.Add(2*time.Hour)))
	h.SafePush(newWaitingTask("soonest", now.Add(time.Minute)))
	h.SafePush(newWaitingTask("middle", now.Add(time.Hour)))

	assert.Equal(t, 3, h.SafeSize())
	assert.Equal(t, "soonest", h.SafePeek().GetName())

	nextTime := h.GetNextExecuteTime()
	require.NotNil(t, nextTime)
	assert.True(t, nextTime.Equal(now.Add(time.Minute)))

	assert.Equal(t, "soonest", h.SafePop().GetName())
	assert.Equal(t, "middle", h.SafePop().GetName())
	assert.Equal(t, "later", h.SafePop().GetName())
	assert.Nil(t, h.SafePop())
}

// TestTaskHeap_PopReadyTasks 测试只弹出到期任务
func TestTaskHeap_PopReadyTasks(t *testing.T) {
	h := NewTaskHeap()
	now := time.Now()

	h.SafePush(newWaitingTask("due-1", now.Add(-time.Minute)))
	h.SafePush(newWaitingTask("due-2", now.Add(-time.Second)))
	h.SafePush(newWaitingTask("future", now.Add(time.Hour)))

	ready := h.PopReadyTasks(now)
	assert.Len(t, ready, 2)
	assert.Equal(t, 1, h.SafeSize())
	assert.Equal(t, "future", h.SafePeek().GetName())
}

// TestTaskHeap_SafeRemove 测试按ID移除任务
func TestTaskHeap_SafeRemove(t *testing.T) {
	h := NewTaskHeap()
	task := newWaitingTask("target", time.Now().Add(time.Hour))
	h.SafePush(task)

	assert.True(t, h.SafeRemove(task.GetID()))
	assert.False(t, h.SafeRemove(task.GetID()))
	assert.Equal(t, 0, h.SafeSize())
}

// TestOnceTask_Lifecycle 测试一次性任务执行后完成
func TestOnceTask_Lifecycle(t *testing.T) {
	executed := false
	task := NewOnceTask("once", time.Now(), time.Second, func(ctx context.Context) error {
		executed = true
		return nil
	})

	require.NoError(t, task.Execute(context.Background()))
	assert.True(t, executed)
	assert.True(t, task.IsCompleted())
}

// TestIntervalTask_UpdateNextTime 测试固定间隔任务的下次执行时间
func TestIntervalTask_UpdateNextTime(t *testing.T) {
	now := time.Now()
	task := NewIntervalTask("interval", now, time.Minute, time.Second, nil)

	next := task.UpdateNextTime(now)
	assert.True(t, next.Equal(now.Add(time.Minute)))
	assert.False(t, task.IsCompleted())
}

// TestCronTask_InvalidExpr 测试非法Cron表达式报错
func TestCronTask_InvalidExpr(t *testing.T) {
	_, err := NewCronTask("bad", "not a cron", time.Second, nil)
	assert.Error(t, err)
}
