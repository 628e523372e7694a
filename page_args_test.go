package paging_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/chat-paging-go"
)

var _ = Describe("PageArgs", func() {
	It("should be safe to read from a nil PageArgs", func() {
		var pa *paging.PageArgs
		Expect(pa.GetFirst()).To(BeNil())
		Expect(pa.GetAfter()).To(BeNil())
	})

	It("should expose First and After", func() {
		first := 10
		after := "cursor123"
		pa := &paging.PageArgs{First: &first, After: &after}
		Expect(*pa.GetFirst()).To(Equal(10))
		Expect(*pa.GetAfter()).To(Equal("cursor123"))
	})
})

var _ = Describe("PageConfig limits", func() {
	var config *paging.PageConfig

	BeforeEach(func() {
		config = paging.NewPageConfig(100)
	})

	Describe("EffectiveLimit", func() {
		It("should use the default size when First is nil", func() {
			Expect(config.EffectiveLimit(&paging.PageArgs{})).To(Equal(paging.DefaultPageSize))
		})

		It("should use the default size when args is nil", func() {
			Expect(config.EffectiveLimit(nil)).To(Equal(paging.DefaultPageSize))
		})

		It("should never default above the maximum", func() {
			Expect(paging.NewPageConfig(20).EffectiveLimit(nil)).To(Equal(20))
		})

		It("should cap First at MaxSize", func() {
			first := 500
			Expect(config.EffectiveLimit(&paging.PageArgs{First: &first})).To(Equal(100))
		})

		It("should honour a custom default", func() {
			config.WithDefaultSize(25)
			Expect(config.EffectiveLimit(nil)).To(Equal(25))
		})

		It("should fall back to defaults for a nil config", func() {
			var nilConfig *paging.PageConfig
			Expect(nilConfig.EffectiveLimit(nil)).To(Equal(paging.DefaultPageSize))
		})
	})

	Describe("Validate", func() {
		It("should accept sizes within the maximum", func() {
			first := 100
			Expect(config.Validate(&paging.PageArgs{First: &first})).To(Succeed())
		})

		It("should reject sizes above the maximum", func() {
			first := 101
			err := config.Validate(&paging.PageArgs{First: &first})
			Expect(err).To(HaveOccurred())

			var sizeErr *paging.PageSizeError
			Expect(err).To(BeAssignableToTypeOf(sizeErr))
			Expect(err.Error()).To(Equal("requested page size 101 exceeds maximum allowed page size of 100"))
		})

		It("should accept missing args", func() {
			Expect(config.Validate(nil)).To(Succeed())
		})
	})
})
