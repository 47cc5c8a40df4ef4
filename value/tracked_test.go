package value_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veridian-silicon/xsim/value"
)

type countingSubscriber struct{ count int }

func (c *countingSubscriber) Notify() { c.count++ }

type countingWaiter struct{ count int }

func (c *countingWaiter) Signal() { c.count++ }

var _ = Describe("TrackedValue", func() {
	It("does not fire edge subscribers when assigning an identical value", func() {
		tv := value.NewTracked(value.FromUint64(0, 0, false, 0))
		tv.TrackEdge = true
		waiter := &countingWaiter{}
		tv.AddPosedgeWaiter(waiter)

		changed := tv.Assign(value.FromUint64(0, 0, false, 0))

		Expect(changed).To(BeFalse())
		Expect(waiter.count).To(Equal(0))
	})

	It("fires posedge waiters exactly once and clears the subscription list", func() {
		tv := value.NewTracked(value.FromUint64(0, 0, false, 0))
		tv.TrackEdge = true
		waiter := &countingWaiter{}
		tv.AddPosedgeWaiter(waiter)

		tv.Assign(value.FromUint64(0, 0, false, 1))
		Expect(waiter.count).To(Equal(1))

		// A second 0->1 transition must not re-fire the already-drained waiter.
		tv.Assign(value.FromUint64(0, 0, false, 0))
		tv.Assign(value.FromUint64(0, 0, false, 1))
		Expect(waiter.count).To(Equal(1))
	})

	It("notifies comb subscribers on every change, not just edges", func() {
		tv := value.NewTracked(value.FromUint64(3, 0, false, 0))
		sub := &countingSubscriber{}
		tv.SubscribeComb(sub)

		tv.Assign(value.FromUint64(3, 0, false, 5))
		tv.Assign(value.FromUint64(3, 0, false, 7))

		Expect(sub.count).To(Equal(2))
	})

	It("only computes edge flags for 1-bit variables", func() {
		tv := value.NewTracked(value.FromUint64(3, 0, false, 0))
		tv.TrackEdge = true

		tv.Assign(value.FromUint64(3, 0, false, 1))

		Expect(tv.ShouldTriggerPosedge).To(BeFalse())
	})
})
