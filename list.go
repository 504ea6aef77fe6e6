package timingwheel

// node is the intrusive linkage embedded in every Timer and used as the
// bucket head (a sentinel node of the same type). A node is "detached"
// when it self-loops (prev == next == &node) or is the zero value with
// both links nil.
type node struct {
	prev *node
	next *node
}

// initNode turns n into an empty, detached self-loop.
func initNode(n *node) {
	n.prev = n
	n.next = n
}

// detached reports whether n is not currently linked into any list.
func detached(n *node) bool {
	return n == n.next || (n.next == nil && n.prev == nil)
}

// isEmpty reports whether head (used as a list head) has no members.
func isEmpty(head *node) bool {
	return head.next == head
}

// append inserts n at the tail of the list rooted at head (immediately
// before head, i.e. head.prev).
// n must be detached.
func (head *node) append(n *node) {
	if !detached(n) {
		PANIC("list: append called on a linked node %p (n: %p p: %p)\n",
			n, n.next, n.prev)
		return
	}
	n.prev = head.prev
	n.next = head
	n.prev.next = n
	head.prev = n

	if head.prev.next != head || n.next.prev != n {
		PANIC("list: append left inconsistent links for %p\n", n)
	}
}

// prepend inserts n at the head of the list rooted at head (immediately
// after head, i.e. head.next).
// n must be detached.
func (head *node) prepend(n *node) {
	if !detached(n) {
		PANIC("list: prepend called on a linked node %p (n: %p p: %p)\n",
			n, n.next, n.prev)
		return
	}
	n.next = head.next
	n.prev = head
	n.next.prev = n
	head.next = n

	if head.next.prev != head || n.prev.next != n {
		PANIC("list: prepend left inconsistent links for %p\n", n)
	}
}

// unlink removes n from whatever list it is part of and re-initialises it
// to a detached self-loop. It is a no-op if n is already detached.
func unlink(n *node) {
	if detached(n) {
		return
	}
	if n.prev.next != n || n.next.prev != n {
		PANIC("list: unlink found corrupted neighbours for %p"+
			" (n: %p p: %p)\n", n, n.next, n.prev)
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	initNode(n)
}

// spliceAfter detaches the entire chain owned by src (a list head) and
// re-inserts it immediately after dst, leaving src empty.
// dst may be a list head or a member node; it must not be part of src's
// own chain.
func (dst *node) spliceAfter(src *node) bool {
	if isEmpty(src) {
		return false
	}
	first := src.next
	last := src.prev
	initNode(src)

	after := dst.next
	dst.next = first
	first.prev = dst
	last.next = after
	after.prev = last
	return true
}

// spliceBefore detaches the entire chain owned by src (a list head) and
// re-inserts it immediately before dst, leaving src empty.
func (dst *node) spliceBefore(src *node) bool {
	if isEmpty(src) {
		return false
	}
	first := src.next
	last := src.prev
	initNode(src)

	before := dst.prev
	dst.prev = last
	last.next = dst
	before.next = first
	first.prev = before
	return true
}
