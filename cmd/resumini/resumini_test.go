package resuminicmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	resuminicmder "github.com/papercomputeco/resumini/cmd/resumini"
)

var _ = Describe("NewResuminiCmd", func() {
	It("registers every subcommand", func() {
		cmd := resuminicmder.NewResuminiCmd()

		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("serve", "score", "ask", "init", "config", "auth", "version"))
	})

	It("exposes the global flags to subcommands", func() {
		cmd := resuminicmder.NewResuminiCmd()
		Expect(cmd.PersistentFlags().Lookup("debug")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})
})
