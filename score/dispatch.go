package score

// Dispatcher schedules tasks on a single timeline. Tasks are handed out one
// at a time by Next and executed by the caller. Tasks may post new tasks.
//
// Implementations may hand out tasks in any order. Assembly results do not
// depend on the order of execution.
type Dispatcher interface {
	Post(task func())
	Next() (task func(), ok bool)
}

// Queue is a first-in-first-out Dispatcher. The zero value is an empty queue.
type Queue struct {
	tasks []func()
}

var _ Dispatcher = (*Queue)(nil)

// Post appends a task to the queue.
func (q *Queue) Post(task func()) {
	if task != nil {
		q.tasks = append(q.tasks, task)
	}
}

// Next removes the first task from the queue.
func (q *Queue) Next() (func(), bool) {
	if len(q.tasks) == 0 {
		return nil, false
	}
	task := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return task, true
}

// Len returns the number of waiting tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Drain runs tasks until the queue is empty, including tasks posted while
// draining. It returns the number of tasks run.
func (q *Queue) Drain() int {
	n := 0
	for task, ok := q.Next(); ok; task, ok = q.Next() {
		task()
		n++
	}
	return n
}
