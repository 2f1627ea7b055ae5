// Command heapctl replays allocation workloads against the heap engine and
// compares placement strategies.
package main

func main() {
	execute()
}
