//go:build integration

package integration

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/hello_gate/internal/app"
	"github.com/eliteGoblin/focusd/hello_gate/internal/domain"
	"github.com/eliteGoblin/focusd/hello_gate/internal/usecase"
	"github.com/eliteGoblin/focusd/hello_gate/test/fixtures"
)

type runResult struct {
	code int
	err  error
}

var _ = Describe("Verification Gate", func() {
	var (
		host       *fixtures.FakeHost
		verifier   *fixtures.FakeVerifier
		controller *app.Controller
		done       chan runResult
	)

	BeforeEach(func() {
		host = fixtures.NewFakeHost()
		verifier = fixtures.NewFakeVerifier()
		done = make(chan runResult, 1)
	})

	start := func() {
		logger := zap.NewNop()
		pipeline := usecase.NewPipeline(
			usecase.NewRequester(verifier, logger),
			usecase.NewNotifier(host, host, logger),
			logger,
		)
		controller = app.NewController(app.DefaultConfig(), host, pipeline, logger)

		go func() {
			code, err := controller.Run(context.Background())
			done <- runResult{code: code, err: err}
		}()
		Eventually(host.LoopStarted()).Should(BeClosed())
	}

	Describe("successful verification", func() {
		It("should keep the window open until the user closes it", func() {
			start()

			Eventually(controller.Result(), 5*time.Second).Should(Receive(Equal(domain.Verified())))
			Eventually(host.Events, 5*time.Second).Should(ContainElement("dispatch:VERIFIED"))
			Consistently(done, 100*time.Millisecond).ShouldNot(Receive())

			Expect(host.UserClose()).To(Succeed())

			var r runResult
			Eventually(done, 5*time.Second).Should(Receive(&r))
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.code).To(Equal(domain.ExitOK))
			Expect(verifier.AvailabilityCalls()).To(Equal(1))
			Expect(verifier.RequestCalls()).To(Equal(1))
		})
	})

	Describe("rejected verification", func() {
		Context("when the verifier is not available", func() {
			It("should show the error dialog and exit with code 1", func() {
				verifier.Availability = domain.AvailabilityDeviceNotPresent
				start()

				var r runResult
				Eventually(done, 5*time.Second).Should(Receive(&r))
				Expect(r.err).NotTo(HaveOccurred())
				Expect(r.code).To(Equal(domain.ExitRejected))
				Expect(verifier.RequestCalls()).To(Equal(0))
				Expect(host.Events()).To(ContainElements(
					"dialog:shown:Error:"+domain.ReasonNotAvailable,
					"dialog:dismissed",
					"post:REJECTED",
					"quit:1",
				))
			})
		})

		Context("when the user fails verification", func() {
			It("should exit with code 1 after the dialog is dismissed", func() {
				verifier.Result = domain.ResultRetriesExhausted
				host.HoldDialogs = true
				start()

				Eventually(host.DialogShown(), 5*time.Second).Should(Receive())
				Consistently(done, 100*time.Millisecond).ShouldNot(Receive())
				Expect(host.Events()).NotTo(ContainElement("post:REJECTED"))

				host.DismissDialog()

				var r runResult
				Eventually(done, 5*time.Second).Should(Receive(&r))
				Expect(r.code).To(Equal(domain.ExitRejected))
				Expect(host.Events()).To(ContainElement("dialog:shown:Error:" + domain.ReasonFailedToVerify))
			})
		})

		Context("when the verifier reports an error", func() {
			It("should show the error text and exit with code 1", func() {
				verifier.ResultErr = errors.New("prompt crashed")
				start()

				var r runResult
				Eventually(done, 5*time.Second).Should(Receive(&r))
				Expect(r.code).To(Equal(domain.ExitRejected))

				var outcome domain.Outcome
				Eventually(controller.Result(), 5*time.Second).Should(Receive(&outcome))
				Expect(outcome.Kind).To(Equal(domain.OutcomeError))
				Expect(outcome.Reason).To(ContainSubstring("prompt crashed"))
			})
		})
	})

	Describe("user closes the window first", func() {
		It("should exit with code 0 and drop the late result", func() {
			verifier.Result = domain.ResultCanceled
			verifier.HoldRequest()
			start()

			Eventually(verifier.Entered(), 5*time.Second).Should(BeClosed())
			Expect(host.UserClose()).To(Succeed())

			var r runResult
			Eventually(done, 5*time.Second).Should(Receive(&r))
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.code).To(Equal(domain.ExitOK))

			verifier.Release()
			Eventually(controller.Result(), 5*time.Second).Should(Receive())
			Expect(host.Events()).NotTo(ContainElement("post:REJECTED"))
			Expect(host.Events()).NotTo(ContainElement("quit:1"))
		})
	})

	Describe("startup failure", func() {
		It("should return an error before the loop runs", func() {
			host.FailCreate = domain.ErrUnsupportedPlatform
			logger := zap.NewNop()
			pipeline := usecase.NewPipeline(
				usecase.NewRequester(verifier, logger),
				usecase.NewNotifier(host, host, logger),
				logger,
			)
			controller = app.NewController(app.DefaultConfig(), host, pipeline, logger)

			code, err := controller.Run(context.Background())
			Expect(err).To(MatchError(domain.ErrUnsupportedPlatform))
			Expect(code).To(Equal(domain.ExitRejected))
			Expect(verifier.AvailabilityCalls()).To(Equal(0))
			Expect(host.Events()).To(BeEmpty())
		})
	})
})
