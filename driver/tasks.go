package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type TaskStatus uint

const (
	TaskIncomplete TaskStatus = iota
	TaskComplete
)

// TaskFun does one unit of stage work. Returning TaskIncomplete (with nil
// error) means "not ready yet, try again", used by tasks that wait on data
// from another partition's list.
type TaskFun func() (TaskStatus, error)

// TaskID is a bitmask over the tasks of one list; dependencies are expressed
// as the OR of the predecessors' IDs
type TaskID uint64

const NoDep TaskID = 0

type task struct {
	id   TaskID
	dep  TaskID
	fun  TaskFun
	done bool
}

// TaskList is a dependency-ordered set of tasks executed by one goroutine.
// Lists in the same region run concurrently; a task blocked on remote data
// simply reports incomplete and is retried.
type TaskList struct {
	tasks []*task
	next  uint
}

func (tl *TaskList) AddTask(dep TaskID, fn TaskFun) (id TaskID) {
	if tl.next >= 64 {
		panic("task list exceeds 64 tasks")
	}
	id = 1 << tl.next
	tl.next++
	tl.tasks = append(tl.tasks, &task{id: id, dep: dep, fun: fn})
	return
}

func (tl *TaskList) completed() (mask TaskID) {
	for _, t := range tl.tasks {
		if t.done {
			mask |= t.id
		}
	}
	return
}

// Execute runs the list to completion, retrying incomplete tasks whose
// dependencies are satisfied. Yields the processor when a full sweep makes no
// progress so peer lists can fill the buffers this one is waiting on.
func (tl *TaskList) Execute(ctx context.Context) (err error) {
	for {
		var (
			ncomplete int
			progress  bool
			doneMask  = tl.completed()
		)
		for _, t := range tl.tasks {
			if t.done {
				ncomplete++
				continue
			}
			if t.dep&doneMask != t.dep {
				continue
			}
			var status TaskStatus
			if status, err = t.fun(); err != nil {
				return
			}
			if status == TaskComplete {
				t.done = true
				doneMask |= t.id
				ncomplete++
				progress = true
			}
		}
		if ncomplete == len(tl.tasks) {
			return
		}
		if err = ctx.Err(); err != nil {
			return fmt.Errorf("task list abandoned: %w", err)
		}
		if !progress {
			runtime.Gosched()
		}
	}
}

// TaskRegion is a set of lists, one per partition, executed concurrently.
// The region completes when every list has.
type TaskRegion []*TaskList

func (tr TaskRegion) Execute(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, tl := range tr {
		tl := tl
		g.Go(func() error { return tl.Execute(gctx) })
	}
	return g.Wait()
}

// TaskCollection is an ordered sequence of regions; each region is a barrier
// for the next
type TaskCollection []TaskRegion

func (tc TaskCollection) Execute(ctx context.Context) (err error) {
	for _, tr := range tc {
		if err = tr.Execute(ctx); err != nil {
			return
		}
	}
	return
}
