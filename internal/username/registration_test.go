// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package username_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/shuttlecraft/shuttlecraft/internal/username"
)

var _ = Describe("Registering a username", func() {
	var filter *username.Filter

	BeforeEach(func() {
		var err error
		filter, err = username.Load(context.Background(), username.Sources{
			Blacklist:  username.StaticSource{"admin", "root", "moderator*"},
			Profanity:  username.StaticSource{"heck"},
			Registered: username.StaticSource{"alice", "Zoë", "straße", "ΣΑΣ"},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	rejectedFor := func(candidate string) username.Reason {
		_, err := filter.Check(candidate)
		Expect(err).To(HaveOccurred())
		reason, ok := username.RejectionReason(err)
		Expect(ok).To(BeTrue())
		return reason
	}

	Context("when the name is reserved", func() {
		It("rejects it as blacklisted", func() {
			Expect(rejectedFor("admin")).To(Equal(username.Blacklisted))
		})

		It("ignores case and width", func() {
			Expect(rejectedFor("ROOT")).To(Equal(username.Blacklisted))
			Expect(rejectedFor("ｍｏｄｅｒａｔｏｒ7")).To(Equal(username.Blacklisted))
		})
	})

	Context("when the name differs from a registered one only by case", func() {
		It("rejects it as a case collision", func() {
			Expect(rejectedFor("Alice")).To(Equal(username.CaseCollision))
			Expect(rejectedFor("ZOË")).To(Equal(username.CaseCollision))
		})

		It("folds case rather than only lowering it", func() {
			Expect(rejectedFor("STRASSE")).To(Equal(username.CaseCollision))
			Expect(rejectedFor("σας")).To(Equal(username.CaseCollision))
			Expect(rejectedFor("σασ")).To(Equal(username.CaseCollision))
		})
	})

	Context("when the name contains a listed word", func() {
		It("rejects it as profane", func() {
			Expect(rejectedFor("heck.yeah")).To(Equal(username.Profane))
		})

		It("reports blacklisted when the name is also reserved", func() {
			f, err := username.Compile(username.Lists{
				Blacklist: []string{"heck"},
				Profanity: []string{"heck"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Classify("heck").Reason).To(Equal(username.Blacklisted))
		})
	})

	Context("when the name is unremarkable", func() {
		It("accepts the normalized form", func() {
			name, err := filter.Check("ZebraFinch42")
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal(username.Name("ZebraFinch42")))
		})
	})

	DescribeTable("normalization is idempotent",
		func(input string) {
			once := username.Normalize(input)
			Expect(username.Normalize(string(once))).To(Equal(once))
		},
		Entry("ascii", "ZebraFinch42"),
		Entry("fullwidth", "Ｚｅｂｒａ"),
		Entry("combining marks", "Zoë"),
		Entry("compatibility ligature", "ﬁnch"),
	)
})
