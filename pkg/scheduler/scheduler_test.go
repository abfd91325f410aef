package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"
)

// newTestScheduler 创建用于测试的调度器，测试结束时停止.
func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()

	s, err := NewScheduler()
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}

	t.Cleanup(func() { _ = s.Stop() })

	return s
}

// TestAddAndRemoveJob 测试任务注册、查询与移除.
func TestAddAndRemoveJob(t *testing.T) {
	s := newTestScheduler(t)

	if err := s.AddCron("sweep", "0 3 * * *", func(ctx context.Context) {}, context.Background()); err != nil {
		t.Fatalf("AddCron failed: %v", err)
	}

	// 重名注册应失败
	if err := s.AddCron("sweep", "0 3 * * *", func(ctx context.Context) {}, context.Background()); err == nil {
		t.Error("AddCron with duplicate name should fail")
	}

	info, err := s.GetJobInfoByName("sweep")
	if err != nil {
		t.Fatalf("GetJobInfoByName failed: %v", err)
	}

	if info.CronExpr != "0 3 * * *" || info.Status != StatusScheduled {
		t.Errorf("unexpected job info: %+v", info)
	}

	if err := s.RemoveJobByName("sweep"); err != nil {
		t.Fatalf("RemoveJobByName failed: %v", err)
	}

	if _, err := s.GetJobInfoByName("sweep"); err == nil {
		t.Error("GetJobInfoByName after remove should fail")
	}

	if err := s.RemoveJobByName("sweep"); err == nil {
		t.Error("RemoveJobByName on missing job should fail")
	}
}

// TestGetJobInfoByNameReturnsCopy 测试返回的任务信息是副本，修改不影响内部状态.
func TestGetJobInfoByNameReturnsCopy(t *testing.T) {
	s := newTestScheduler(t)

	if err := s.AddCron("stats", "15 * * * *", func(ctx context.Context) {}, context.Background()); err != nil {
		t.Fatalf("AddCron failed: %v", err)
	}

	info, err := s.GetJobInfoByName("stats")
	if err != nil {
		t.Fatalf("GetJobInfoByName failed: %v", err)
	}

	info.Status = StatusError
	info.Error = "mutated by caller"

	fresh, err := s.GetJobInfoByName("stats")
	if err != nil {
		t.Fatalf("GetJobInfoByName failed: %v", err)
	}

	if fresh.Status != StatusScheduled || fresh.Error != "" {
		t.Errorf("internal job info mutated through returned value: %+v", fresh)
	}
}

// TestJobStateConcurrentAccess 测试任务执行状态记录与查询、移除在并发下互不破坏.
// 任务包装函数对 jobInfos 的读写走持锁辅助方法，与状态更新器和移除并发执行.
func TestJobStateConcurrentAccess(t *testing.T) {
	s := newTestScheduler(t)

	names := []string{"job-a", "job-b", "job-c"}
	for _, name := range names {
		if err := s.AddCron(name, "0 3 * * *", func(ctx context.Context) {}, context.Background()); err != nil {
			t.Fatalf("AddCron %s failed: %v", name, err)
		}
	}

	var wg sync.WaitGroup

	const iterations = 200

	// 模拟任务执行侧的状态写入
	for _, name := range names {
		wg.Add(1)

		go func(name string) {
			defer wg.Done()

			for range iterations {
				if s.hasJob(name) {
					s.updateJobStatus(name, StatusRunning, "")
					s.markJobSuccess(name)
					s.updateJobStatus(name, StatusScheduled, "")
				}
			}
		}(name)
	}

	// 状态更新器
	wg.Add(1)

	go func() {
		defer wg.Done()

		for range iterations {
			s.updateAllJobStatuses()
		}
	}()

	// 查询侧
	wg.Add(1)

	go func() {
		defer wg.Done()

		for range iterations {
			_ = s.GetJobInfos()
			_, _ = s.GetJobInfoByName("job-a")
		}
	}()

	// 移除侧，模拟 DELETE /scheduler/jobs/:name
	wg.Add(1)

	go func() {
		defer wg.Done()

		time.Sleep(time.Millisecond)
		_ = s.RemoveJobByName("job-b")
	}()

	wg.Wait()

	if s.hasJob("job-b") {
		t.Error("job-b should have been removed")
	}

	info, err := s.GetJobInfoByName("job-a")
	if err != nil {
		t.Fatalf("GetJobInfoByName failed: %v", err)
	}

	if info.LastSuccess.IsZero() {
		t.Error("LastSuccess should have been recorded")
	}
}
