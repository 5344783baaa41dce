package apps

import (
	"errors"
	"fmt"

	"coop/coopos/abi"
	"coop/coopos/trap"
	"coop/coopos/ulib"
)

var errBadParam = errors.New("bad parameter")

func buildHello(Params) (trap.Program, error) {
	return func(u *trap.User) int {
		ulib.Println(u, "Hello, world!")
		return 0
	}, nil
}

const powerLen = 100

// buildPower computes base^iter modulo modulus through a ring of partial
// results, yielding every step iterations.
func buildPower(p Params) (trap.Program, error) {
	base := uint64(p.get("base", 3))
	iter := p.get("iter", 200000)
	modulus := uint64(p.get("modulus", 998244353))
	step := p.get("step", 10000)
	if iter <= 0 || modulus == 0 || step <= 0 {
		return nil, fmt.Errorf("%w: iter=%d modulus=%d step=%d", errBadParam, iter, modulus, step)
	}

	return func(u *trap.User) int {
		var s [powerLen]uint64
		cur := 0
		s[cur] = 1
		for i := 1; i <= iter; i++ {
			next := cur + 1
			if next == powerLen {
				next = 0
			}
			s[next] = s[cur] * base % modulus
			cur = next
			if i%step == 0 {
				ulib.Printf(u, "power_%d [%d/%d]\n", base, i, iter)
				ulib.Yield(u)
			}
		}
		ulib.Printf(u, "%d^%d = %d(MOD %d)\n", base, iter, s[cur], modulus)
		ulib.Printf(u, "Test power_%d OK!\n", base)
		return 0
	}, nil
}

// buildSleep yields until ms milliseconds have passed.
func buildSleep(p Params) (trap.Program, error) {
	ms := int64(p.get("ms", 3000))
	if ms < 0 {
		return nil, fmt.Errorf("%w: ms=%d", errBadParam, ms)
	}
	return func(u *trap.User) int {
		start := ulib.GetTimeMS(u)
		if start < 0 {
			return -1
		}
		for ulib.GetTimeMS(u) < start+ms {
			ulib.Yield(u)
		}
		ulib.Println(u, "Test sleep OK!")
		return 0
	}, nil
}

// buildSpin yields n times.
func buildSpin(p Params) (trap.Program, error) {
	n := p.get("yields", 5)
	if n < 0 {
		return nil, fmt.Errorf("%w: yields=%d", errBadParam, n)
	}
	return func(u *trap.User) int {
		for i := 0; i < n; i++ {
			ulib.Yield(u)
		}
		return 0
	}, nil
}

// buildTaskInfo checks that task_info sees the caller's own calls.
func buildTaskInfo(Params) (trap.Program, error) {
	return func(u *trap.User) int {
		t1 := ulib.GetTimeMS(u)
		ulib.Yield(u)
		var info abi.TaskInfo
		if ulib.TaskInfo(u, &info) != 0 {
			ulib.Println(u, "task_info failed")
			return -1
		}
		t2 := ulib.GetTimeMS(u)

		ok := info.Status == abi.Running &&
			info.SyscallTimes[abi.SysGetTime] == 1 &&
			info.SyscallTimes[abi.SysYield] == 1 &&
			info.SyscallTimes[abi.SysTaskInfo] == 1 &&
			info.SyscallTimes[abi.SysWrite] == 0 &&
			info.SyscallTimes[abi.SysExit] == 0 &&
			t1 >= 0 && t2 >= t1
		if !ok {
			ulib.Printf(u, "Test task info FAILED: status=%s get_time=%d yield=%d task_info=%d\n",
				info.Status, info.SyscallTimes[abi.SysGetTime], info.SyscallTimes[abi.SysYield], info.SyscallTimes[abi.SysTaskInfo])
			return -1
		}
		ulib.Println(u, "Test task info OK!")
		return 0
	}, nil
}
