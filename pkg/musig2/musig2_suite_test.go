package musig2_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMusig2(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "MuSig2 Threshold Signer Suite")
}
