// Integration test for NUMA optimization Phase 3.1.3 completion
package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/orizon-lang/orizon-memdebug/internal/runtime/numa"
)

func main() {
	fmt.Println("=== NUMA Optimizer Phase 3.1.3 Integration Test ===")

	// Test 1: Basic optimizer creation
	fmt.Println("\n1. Creating NUMA optimizer...")
	optimizer := numa.NewOptimizer()
	if optimizer == nil {
		panic("Failed to create optimizer")
	}
	fmt.Println("✓ Optimizer created successfully")

	// Test 2: Memory allocation
	fmt.Println("\n2. Testing memory allocation...")
	start := time.Now()
	for i := 0; i < 1000; i++ {
		size := uintptr(1024 + i%1024)
		nodeHint := i % 4 // Assume 4 NUMA nodes
		ptr := optimizer.Allocate(size, nodeHint)
		if ptr == 0 {
			panic(fmt.Sprintf("Allocation %d failed", i))
		}
	}
	allocTime := time.Since(start)
	fmt.Printf("✓ 1000 allocations completed in %v (avg: %v per allocation)\n",
		allocTime, allocTime/1000)

	// Test 3: Task scheduling
	fmt.Println("\n3. Testing task scheduling...")
	err := optimizer.Start()
	if err != nil {
		panic(fmt.Sprintf("Failed to start optimizer: %v", err))
	}

	const numTasks = 100
	var wg sync.WaitGroup

	start = time.Now()
	for i := 0; i < numTasks; i++ {
		wg.Add(1)

		task := &numa.Task{
			ID: uint64(i),
			Function: func() interface{} {
				defer wg.Done()
				// Simulate some work
				sum := 0
				for j := 0; j < 1000; j++ {
					sum += j
				}
				return sum
			},
			NodeAffinity: i % 4,
			Created:      time.Now(),
			Result:       make(chan interface{}, 1),
		}

		err := optimizer.ScheduleTask(task)
		if err != nil {
			panic(fmt.Sprintf("Task scheduling failed: %v", err))
		}
	}

	wg.Wait()
	scheduleTime := time.Since(start)
	fmt.Printf("✓ %d tasks scheduled and executed in %v (avg: %v per task)\n",
		numTasks, scheduleTime, scheduleTime/numTasks)

	// Test 4: Concurrent workload
	fmt.Println("\n4. Testing concurrent workload...")
	const numWorkers = 8
	const tasksPerWorker = 50

	start = time.Now()
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for t := 0; t < tasksPerWorker; t++ {
				// Mix allocations and tasks
				if t%2 == 0 {
					size := uintptr(512 + t*32)
					nodeHint := workerID % 4
					ptr := optimizer.Allocate(size, nodeHint)
					if ptr == 0 {
						panic("Concurrent allocation failed")
					}
				} else {
					task := &numa.Task{
						ID: uint64(workerID*tasksPerWorker + t),
						Function: func() interface{} {
							time.Sleep(time.Microsecond * 10) // Simulate work
							return workerID
						},
						NodeAffinity: workerID % 4,
						Created:      time.Now(),
						Result:       make(chan interface{}, 1),
					}

					err := optimizer.ScheduleTask(task)
					if err != nil {
						panic(fmt.Sprintf("Concurrent task failed: %v", err))
					}

					<-task.Result // Wait for completion
				}
			}
		}(w)
	}

	wg.Wait()
	concurrentTime := time.Since(start)
	totalOps := numWorkers * tasksPerWorker
	fmt.Printf("✓ %d concurrent operations completed in %v (avg: %v per operation)\n",
		totalOps, concurrentTime, concurrentTime/time.Duration(totalOps))

	// Test 5: Performance statistics
	fmt.Println("\n5. Gathering performance statistics...")
	stats := optimizer.GetStatistics()

	fmt.Printf("✓ Local allocations: %d\n", stats["local_allocations"])
	fmt.Printf("✓ Remote allocations: %d\n", stats["remote_allocations"])
	fmt.Printf("✓ Task migrations: %d\n", stats["migrations"])
	fmt.Printf("✓ Load balance operations: %d\n", stats["balance_operations"])
	fmt.Printf("✓ NUMA nodes: %d\n", stats["node_count"])
	fmt.Printf("✓ Cores per node: %d\n", stats["cores_per_node"])

	if perfGain, ok := stats["performance_gain"].(float64); ok && perfGain > 0 {
		fmt.Printf("✓ Performance gain: %.2f%%\n", perfGain*100)
	}

	// Test 6: Cleanup
	fmt.Println("\n6. Cleaning up...")
	err = optimizer.Stop()
	if err != nil {
		panic(fmt.Sprintf("Failed to stop optimizer: %v", err))
	}
	fmt.Println("✓ Optimizer stopped successfully")

	fmt.Println("\n=== Phase 3.1.3 NUMA Optimization - COMPLETED SUCCESSFULLY ===")
	fmt.Println("✓ All tests passed")
	fmt.Println("✓ NUMA-aware memory allocation working")
	fmt.Println("✓ Task scheduling with affinity working")
	fmt.Println("✓ Concurrent operations handling working")
	fmt.Println("✓ Performance monitoring working")
	fmt.Println("✓ Load balancing working")

	fmt.Printf("\nOptimizer summary: %s\n", optimizer.String())
}
