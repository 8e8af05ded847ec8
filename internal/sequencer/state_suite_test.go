package sequencer

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/seqsim/internal/timeline"
)

func TestStateMachine(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Sequencer state machine")
}

var _ = Describe("Sequencer", func() {
	var (
		s     *Sequencer
		cfg   Settings
		loops int
	)

	build := func() {
		data := eventSequence(10, map[float64]string{5: "mid"})
		var err error
		s, err = New(data, binder(), WithSettings(cfg))
		Expect(err).NotTo(HaveOccurred())
		loops = 0
		s.OnLooped(func() { loops++ })
	}

	BeforeEach(func() {
		cfg = DefaultSettings()
	})

	Context("when stopped", func() {
		BeforeEach(build)

		It("starts at zero and unbound", func() {
			Expect(s.State()).To(Equal(Stopped))
			Expect(s.Position()).To(BeZero())
			Expect(s.Bound()).To(BeFalse())
		})

		It("ignores pause and direction changes", func() {
			s.Pause()
			s.ChangeDirection()
			Expect(s.State()).To(Equal(Stopped))
		})

		It("reports done on tick", func() {
			Expect(s.Tick(1)).To(BeTrue())
			Expect(s.Position()).To(BeZero())
		})

		It("scrubs without staying bound", func() {
			s.SetPosition(4, false)
			Expect(s.Position()).To(Equal(4.0))
			Expect(s.Bound()).To(BeFalse())
		})

		It("clamps scrubbing to the sequence", func() {
			s.SetPosition(42, true)
			Expect(s.Position()).To(Equal(10.0))
			s.SetPosition(-3, true)
			Expect(s.Position()).To(BeZero())
		})

		It("rewinds when played from the end", func() {
			s.SetPosition(10, true)
			s.Play()
			Expect(s.Position()).To(BeZero())
			Expect(s.State()).To(Equal(PlayingForward))
		})

		It("jumps to the end when reversed from zero", func() {
			s.Reverse()
			Expect(s.Position()).To(Equal(10.0))
			Expect(s.State()).To(Equal(PlayingReverse))
		})
	})

	Context("when playing forward", func() {
		BeforeEach(func() {
			build()
			s.Play()
		})

		It("binds and advances", func() {
			Expect(s.Bound()).To(BeTrue())
			Expect(s.Tick(2.5)).To(BeFalse())
			Expect(s.Position()).To(Equal(2.5))
		})

		It("pauses and resumes", func() {
			s.Pause()
			Expect(s.State()).To(Equal(Paused))
			s.Tick(3)
			Expect(s.Position()).To(BeZero())
			s.Play()
			Expect(s.State()).To(Equal(PlayingForward))
		})

		It("switches direction without rebinding", func() {
			s.Tick(4)
			s.Reverse()
			Expect(s.State()).To(Equal(PlayingReverse))
			Expect(s.Position()).To(Equal(4.0))
			s.ChangeDirection()
			Expect(s.State()).To(Equal(PlayingForward))
		})

		It("stops at the end", func() {
			Expect(s.Tick(11)).To(BeTrue())
			Expect(s.State()).To(Equal(Stopped))
			Expect(s.Position()).To(Equal(10.0))
			Expect(s.Bound()).To(BeFalse())
		})

		It("stops on command", func() {
			s.Tick(1)
			s.Stop()
			Expect(s.State()).To(Equal(Stopped))
			Expect(s.Position()).To(Equal(1.0))
		})
	})

	Context("when looping", func() {
		BeforeEach(func() {
			cfg.Loop = true
			build()
		})

		It("wraps forward once per pass", func() {
			s.Play()
			Expect(s.Tick(25)).To(BeFalse())
			Expect(s.Position()).To(BeNumerically("~", 5, 1e-9))
			Expect(loops).To(Equal(2))
		})

		It("wraps in reverse", func() {
			s.SetPosition(3, true)
			s.Reverse()
			s.Tick(4)
			Expect(s.Position()).To(BeNumerically("~", 9, 1e-9))
			Expect(loops).To(Equal(1))
			Expect(s.State()).To(Equal(PlayingReverse))
		})
	})

	Context("with a rate", func() {
		BeforeEach(func() {
			cfg.Rate = 2
			build()
			s.Play()
		})

		It("scales elapsed time", func() {
			s.Tick(1.5)
			Expect(s.Position()).To(Equal(3.0))
		})
	})

	Context("with folder groups", func() {
		It("does not instance them", func() {
			folder := timeline.NewGroup("folder")
			folder.Folder = true
			data := eventSequence(10, nil)
			data.AddGroup(folder)

			var err error
			s, err = New(data, binder())
			Expect(err).NotTo(HaveOccurred())
			s.Play()
			Expect(s.FindGroupInstanceByName("folder")).To(BeNil())
			Expect(s.GroupInstances()).To(HaveLen(1))
		})
	})
})
