package integration_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/apkguard/apkguard/apk"
	"github.com/apkguard/apkguard/evaluate"
	"github.com/apkguard/apkguard/rule"
)

var _ = Describe("a rule cascade evaluated against a bundle", func() {
	var (
		r      *rule.Rule
		caller apk.MethodRef
	)

	BeforeEach(func() {
		r = &rule.Rule{
			Crime:       "Send location via SMS without consent",
			Permissions: []string{"android.permission.SEND_SMS"},
			APIPair: [2]rule.APIRef{
				{Class: "Landroid/telephony/SmsManager;", Method: "sendTextMessage"},
				{Class: "Landroid/location/LocationManager;", Method: "getLastKnownLocation"},
			},
			YScore: 5,
		}
		caller = apk.MethodRef{Class: "Lcom/app/MainActivity;", Method: "onClick"}
	})

	Context("when nothing matches", func() {
		It("fails every stage and scores zero", func() {
			b := apk.NewBundle("app.apk", 10)
			res, err := evaluate.New(b).Evaluate(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.CheckItem).To(Equal([5]bool{false, false, false, false, false}))
			Expect(res.Confidence()).To(BeNumerically("==", 0))
			Expect(res.Score).To(BeZero())
		})
	})

	Context("when only the permission is declared", func() {
		It("passes stage one and stops", func() {
			b := apk.NewBundle("app.apk", 10).Grant("android.permission.SEND_SMS")
			res, err := evaluate.New(b).Evaluate(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.CheckItem).To(Equal([5]bool{true, false, false, false, false}))
			Expect(res.Confidence()).To(BeNumerically("~", 0.2, 0.001))
		})
	})

	Context("when both APIs are present with no mutual parent", func() {
		It("passes three stages and stops", func() {
			b := apk.NewBundle("app.apk", 10).Grant("android.permission.SEND_SMS")
			b.AddMethod(r.FirstAPI())
			b.AddMethod(r.SecondAPI())

			res, err := evaluate.New(b).Evaluate(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.CheckItem).To(Equal([5]bool{true, true, true, false, false}))
			Expect(res.Confidence()).To(BeNumerically("~", 0.6, 0.001))
		})
	})

	Context("when a mutual parent calls the APIs in the wrong order", func() {
		It("fails the sequence stage", func() {
			b := apk.NewBundle("app.apk", 10).Grant("android.permission.SEND_SMS")
			b.AddCall(caller, r.SecondAPI(), 1)
			b.AddCall(caller, r.FirstAPI(), 2)

			res, err := evaluate.New(b).Evaluate(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.CheckItem).To(Equal([5]bool{true, true, true, false, false}))
			Expect(res.MutualParents).To(ConsistOf(caller))
		})
	})

	Context("when the order is correct but no register is shared", func() {
		It("passes sequence but fails same-parameter", func() {
			b := apk.NewBundle("app.apk", 10).Grant("android.permission.SEND_SMS")
			b.AddCall(caller, r.FirstAPI(), 1)
			b.AddCall(caller, r.SecondAPI(), 2)
			b.SetBytecode(caller,
				apk.Instruction{Mnemonic: "new-instance", Parameter: "Landroid/telephony/SmsManager;", Registers: []string{"v0"}},
				apk.Instruction{Mnemonic: "invoke-virtual", Parameter: r.FirstAPI().Key(), Registers: []string{"v0"}},
				apk.Instruction{Mnemonic: "new-instance", Parameter: "Lsome/Unrelated;", Registers: []string{"v1"}},
				apk.Instruction{Mnemonic: "invoke-virtual", Parameter: r.SecondAPI().Key(), Registers: []string{"v1"}},
			)

			res, err := evaluate.New(b).Evaluate(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.CheckItem).To(Equal([5]bool{true, true, true, true, false}))
			Expect(res.MutualParents).To(ConsistOf(caller))
		})
	})

	Context("when the same value flows into both APIs in order", func() {
		It("passes every stage", func() {
			b := apk.NewBundle("app.apk", 10).Grant("android.permission.SEND_SMS")
			b.AddCall(caller, r.FirstAPI(), 1)
			b.AddCall(caller, r.SecondAPI(), 2)
			b.SetBytecode(caller,
				apk.Instruction{Mnemonic: "new-instance", Parameter: "Landroid/telephony/SmsManager;", Registers: []string{"v0"}},
				apk.Instruction{Mnemonic: "invoke-virtual", Parameter: r.FirstAPI().Key(), Registers: []string{"v0"}},
				apk.Instruction{Mnemonic: "invoke-virtual", Parameter: r.SecondAPI().Key(), Registers: []string{"v0"}},
			)

			res, err := evaluate.New(b).Evaluate(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.CheckItem).To(Equal([5]bool{true, true, true, true, true}))
			Expect(res.Confidence()).To(BeNumerically("==", 1))
			Expect(res.MutualParents).To(ConsistOf(caller))
			Expect(res.Score).To(Equal(5.0))
		})
	})
})
