package musig2_test

import (
	"crypto/ed25519"
	"crypto/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fuyofulo/solana-token-tss/pkg/curve"
	"github.com/fuyofulo/solana-token-tss/pkg/keypair"
	"github.com/fuyofulo/solana-token-tss/pkg/musig2"
)

// signingSet holds everything one Describe block needs to run the full
// two-round protocol over n participants.
type signingSet struct {
	keypairs []*keypair.KeyPair
	pubkeys  []curve.Point
	apk      *musig2.AggregatedKey
}

func newSigningSet(n int) signingSet {
	kps := make([]*keypair.KeyPair, n)
	pubs := make([]curve.Point, n)
	for i := range kps {
		kp, err := keypair.Generate(rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		kps[i] = kp
		pubs[i] = kp.PublicKey()
	}
	apk, err := musig2.Aggregate(pubs)
	Expect(err).NotTo(HaveOccurred())
	return signingSet{keypairs: kps, pubkeys: pubs, apk: apk}
}

// partialsFor runs round_one and round_two for every participant in set
// against message and returns the resulting partial signatures.
func partialsFor(set signingSet, message []byte) []musig2.PartialSignature {
	n := len(set.keypairs)
	firstMsgs := make([]musig2.FirstRoundMessage, n)
	secrets := make([]*musig2.SessionSecret, n)

	for i, kp := range set.keypairs {
		msg, secret, err := musig2.RoundOne(kp, rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		firstMsgs[i] = msg
		secrets[i] = secret
	}

	partials := make([]musig2.PartialSignature, n)
	for i, kp := range set.keypairs {
		peers := make([]musig2.FirstRoundMessage, 0, n-1)
		for j, m := range firstMsgs {
			if j != i {
				peers = append(peers, m)
			}
		}
		partial, err := musig2.RoundTwo(kp, set.apk, secrets[i], peers, message)
		Expect(err).NotTo(HaveOccurred())
		partials[i] = partial
	}
	return partials
}

// sign runs the full two-round protocol over set and returns the
// aggregated signature.
func sign(set signingSet, message []byte) musig2.Signature {
	sig, err := musig2.AggregateSignatures(set.apk, partialsFor(set, message), message)
	Expect(err).NotTo(HaveOccurred())
	return sig
}

var _ = Describe("Aggregate", func() {
	It("rejects fewer than two participants", func() {
		kp, err := keypair.Generate(rand.Reader)
		Expect(err).NotTo(HaveOccurred())

		_, err = musig2.Aggregate([]curve.Point{kp.PublicKey()})
		Expect(err).To(MatchError(musig2.ErrTooFewParticipants))
	})

	It("produces an order-dependent aggregated key", func() {
		a, err := keypair.Generate(rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		b, err := keypair.Generate(rand.Reader)
		Expect(err).NotTo(HaveOccurred())

		apkAB, err := musig2.Aggregate([]curve.Point{a.PublicKey(), b.PublicKey()})
		Expect(err).NotTo(HaveOccurred())
		apkBA, err := musig2.Aggregate([]curve.Point{b.PublicKey(), a.PublicKey()})
		Expect(err).NotTo(HaveOccurred())

		Expect(apkAB.Point.Equal(apkBA.Point)).To(BeFalse())
	})

	It("is deterministic for a fixed order", func() {
		a, err := keypair.Generate(rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		b, err := keypair.Generate(rand.Reader)
		Expect(err).NotTo(HaveOccurred())

		first, err := musig2.Aggregate([]curve.Point{a.PublicKey(), b.PublicKey()})
		Expect(err).NotTo(HaveOccurred())
		second, err := musig2.Aggregate([]curve.Point{a.PublicKey(), b.PublicKey()})
		Expect(err).NotTo(HaveOccurred())

		Expect(first.Point.Equal(second.Point)).To(BeTrue())
	})
})

var _ = Describe("End-to-end signing", func() {
	DescribeTable("produces a signature the standard Ed25519 verifier accepts under the aggregated key",
		func(n int) {
			set := newSigningSet(n)
			message := []byte("transfer 1000000 lamports")

			sig := sign(set, message)

			// Verify with crypto/ed25519 itself: the aggregated signature
			// must be indistinguishable from a single-signer one.
			apkB := set.apk.Point.Bytes()
			sigB := sig.Bytes()
			Expect(ed25519.Verify(ed25519.PublicKey(apkB[:]), message, sigB[:])).To(BeTrue())
		},
		Entry("two parties", 2),
		Entry("three parties", 3),
		Entry("five parties", 5),
	)

	It("rejects round two with the wrong number of peer messages", func() {
		set := newSigningSet(2)
		message := []byte("hello")

		kp := set.keypairs[0]
		msg, secret, err := musig2.RoundOne(kp, rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		_ = msg

		_, err = musig2.RoundTwo(kp, set.apk, secret, nil, message)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a session secret used twice", func() {
		set := newSigningSet(2)
		message := []byte("hello")

		msgs := make([]musig2.FirstRoundMessage, 2)
		secrets := make([]*musig2.SessionSecret, 2)
		for i, kp := range set.keypairs {
			m, s, err := musig2.RoundOne(kp, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			msgs[i] = m
			secrets[i] = s
		}

		_, err := musig2.RoundTwo(set.keypairs[0], set.apk, secrets[0], []musig2.FirstRoundMessage{msgs[1]}, message)
		Expect(err).NotTo(HaveOccurred())

		_, err = musig2.RoundTwo(set.keypairs[0], set.apk, secrets[0], []musig2.FirstRoundMessage{msgs[1]}, message)
		Expect(err).To(MatchError(musig2.ErrSessionSecretReused))
	})

	It("rejects a peer message whose claimed sender doesn't match its expected position", func() {
		set := newSigningSet(3)
		message := []byte("hello")

		msgs := make([]musig2.FirstRoundMessage, 3)
		secrets := make([]*musig2.SessionSecret, 3)
		for i, kp := range set.keypairs {
			m, s, err := musig2.RoundOne(kp, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			msgs[i] = m
			secrets[i] = s
		}

		// Swap the two peer messages party 0 expects, so their claimed
		// senders no longer line up with participants[1] and [2] in order.
		swapped := []musig2.FirstRoundMessage{msgs[2], msgs[1]}
		_, err := musig2.RoundTwo(set.keypairs[0], set.apk, secrets[0], swapped, message)
		Expect(err).To(MatchError(musig2.ErrSenderMismatch))
	})

	It("fails aggregation when partial signatures disagree on the nonce", func() {
		set := newSigningSet(2)
		message := []byte("hello")

		// Build one partial from each of two independent nonce sessions,
		// so their effective aggregated nonces can never match.
		msgA, _, err := musig2.RoundOne(set.keypairs[0], rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		_, secA, err := musig2.RoundOne(set.keypairs[1], rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		partialA, err := musig2.RoundTwo(set.keypairs[1], set.apk, secA, []musig2.FirstRoundMessage{msgA}, message)
		Expect(err).NotTo(HaveOccurred())

		msgB, _, err := musig2.RoundOne(set.keypairs[0], rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		_, secB, err := musig2.RoundOne(set.keypairs[1], rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		partialB, err := musig2.RoundTwo(set.keypairs[1], set.apk, secB, []musig2.FirstRoundMessage{msgB}, message)
		Expect(err).NotTo(HaveOccurred())

		_, err = musig2.AggregateSignatures(set.apk, []musig2.PartialSignature{partialA, partialB}, message)
		Expect(err).To(MatchError(musig2.ErrMismatchedNonceAggregate))
	})

	It("produces mutually non-aggregatable partials under different orderings", func() {
		a, err := keypair.Generate(rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		b, err := keypair.Generate(rand.Reader)
		Expect(err).NotTo(HaveOccurred())

		apkAB, err := musig2.Aggregate([]curve.Point{a.PublicKey(), b.PublicKey()})
		Expect(err).NotTo(HaveOccurred())
		apkBA, err := musig2.Aggregate([]curve.Point{b.PublicKey(), a.PublicKey()})
		Expect(err).NotTo(HaveOccurred())

		message := []byte("hello")
		msgA, secA, err := musig2.RoundOne(a, rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		msgB, secB, err := musig2.RoundOne(b, rand.Reader)
		Expect(err).NotTo(HaveOccurred())

		// Party a signs under the [a, b] ordering, party b under [b, a]:
		// their aggregated keys (and hence effective nonces) disagree.
		partialA, err := musig2.RoundTwo(a, apkAB, secA, []musig2.FirstRoundMessage{msgB}, message)
		Expect(err).NotTo(HaveOccurred())
		partialB, err := musig2.RoundTwo(b, apkBA, secB, []musig2.FirstRoundMessage{msgA}, message)
		Expect(err).NotTo(HaveOccurred())

		_, err = musig2.AggregateSignatures(apkAB, []musig2.PartialSignature{partialA, partialB}, message)
		Expect(err).To(MatchError(musig2.ErrMismatchedNonceAggregate))
	})

	It("rejects a keypair absent from the participant set", func() {
		set := newSigningSet(2)
		outsider, err := keypair.Generate(rand.Reader)
		Expect(err).NotTo(HaveOccurred())

		peerMsg, _, err := musig2.RoundOne(set.keypairs[1], rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		_, secret, err := musig2.RoundOne(outsider, rand.Reader)
		Expect(err).NotTo(HaveOccurred())

		_, err = musig2.RoundTwo(outsider, set.apk, secret, []musig2.FirstRoundMessage{peerMsg}, []byte("hello"))
		Expect(err).To(MatchError(musig2.ErrKeypairNotInSet))

		_, err = set.apk.CoefficientFor(outsider.PublicKey())
		Expect(err).To(MatchError(musig2.ErrKeypairNotInSet))
	})

	It("rejects a partial signature set with the wrong count", func() {
		set := newSigningSet(3)
		message := []byte("hello")
		partials := partialsFor(set, message)

		_, err := musig2.AggregateSignatures(set.apk, partials[:2], message)
		Expect(err).To(MatchError(musig2.ErrMismatchedMessages))
	})
})

var _ = Describe("Tamper detection", func() {
	It("fails with a nonce mismatch when one partial's R is substituted", func() {
		set := newSigningSet(2)
		message := []byte("transfer 10000 lamports")
		partials := partialsFor(set, message)

		bogus, err := curve.SampleScalar(rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		partials[1].R = curve.ScalarBaseMult(bogus)

		_, err = musig2.AggregateSignatures(set.apk, partials, message)
		Expect(err).To(MatchError(musig2.ErrMismatchedNonceAggregate))
	})

	It("fails verification when one partial's scalar is flipped by a bit", func() {
		set := newSigningSet(2)
		message := []byte("transfer 10000 lamports")
		partials := partialsFor(set, message)

		buf := partials[1].Encode()
		buf[33] ^= 0x01
		tampered, err := musig2.DecodePartialSignature(buf)
		Expect(err).NotTo(HaveOccurred())
		partials[1] = tampered

		_, err = musig2.AggregateSignatures(set.apk, partials, message)
		Expect(err).To(MatchError(musig2.ErrInvalidSignature))
	})
})

var _ = Describe("Message divergence", func() {
	It("fails verification when the aggregator rebuilds a different message", func() {
		set := newSigningSet(3)
		signed := []byte("blockhash H")
		partials := partialsFor(set, signed)

		_, err := musig2.AggregateSignatures(set.apk, partials, []byte("blockhash H'"))
		Expect(err).To(MatchError(musig2.ErrInvalidSignature))
	})

	It("fails with a nonce mismatch when one party signed a different message", func() {
		set := newSigningSet(3)
		n := len(set.keypairs)

		firstMsgs := make([]musig2.FirstRoundMessage, n)
		secrets := make([]*musig2.SessionSecret, n)
		for i, kp := range set.keypairs {
			m, s, err := musig2.RoundOne(kp, rand.Reader)
			Expect(err).NotTo(HaveOccurred())
			firstMsgs[i] = m
			secrets[i] = s
		}

		// Party 2 fetched a different recent blockhash, so its round_two
		// commits to different message bytes.
		messages := [][]byte{[]byte("blockhash H"), []byte("blockhash H"), []byte("blockhash H'")}
		partials := make([]musig2.PartialSignature, n)
		for i, kp := range set.keypairs {
			peers := make([]musig2.FirstRoundMessage, 0, n-1)
			for j, m := range firstMsgs {
				if j != i {
					peers = append(peers, m)
				}
			}
			partial, err := musig2.RoundTwo(kp, set.apk, secrets[i], peers, messages[i])
			Expect(err).NotTo(HaveOccurred())
			partials[i] = partial
		}

		_, err := musig2.AggregateSignatures(set.apk, partials, []byte("blockhash H"))
		Expect(err).To(MatchError(musig2.ErrMismatchedNonceAggregate))
	})
})

var _ = Describe("Nonce reuse", func() {
	It("lets an observer recover a party's secret scalar from reused nonces", func() {
		set := newSigningSet(2)
		victim, peer := set.keypairs[0], set.keypairs[1]

		victimMsg, victimSecret, err := musig2.RoundOne(victim, rand.Reader)
		Expect(err).NotTo(HaveOccurred())

		// Ferrying the secret as a base58 blob and decoding it again
		// resets the single-use guard — exactly the misuse a careless
		// operator re-running round2 from the same secret file commits.
		blob := victimSecret.Base58()

		apkB := set.apk.Point.Bytes()
		messages := [][]byte{[]byte("m1"), []byte("m2"), []byte("m3")}
		bs := make([]curve.Scalar, len(messages))
		cs := make([]curve.Scalar, len(messages))
		ss := make([]curve.Scalar, len(messages))

		for j, m := range messages {
			reused, err := musig2.SessionSecretFromBase58(blob)
			Expect(err).NotTo(HaveOccurred())
			peerMsg, _, err := musig2.RoundOne(peer, rand.Reader)
			Expect(err).NotTo(HaveOccurred())

			partial, err := musig2.RoundTwo(victim, set.apk, reused, []musig2.FirstRoundMessage{peerMsg}, m)
			Expect(err).NotTo(HaveOccurred())

			// Everything below is computed from public values only: the
			// exchanged first-round messages, the APK, and the partial.
			aggR1 := victimMsg.R1.Add(peerMsg.R1)
			aggR2 := victimMsg.R2.Add(peerMsg.R2)
			a1, a2 := aggR1.Bytes(), aggR2.Bytes()
			Rb := partial.R.Bytes()

			bs[j] = curve.HashToScalar("musig2_bind", apkB[:], a1[:], a2[:], m)
			cs[j] = curve.HashToScalar("", Rb[:], apkB[:], m)
			ss[j] = partial.S
		}

		// s_j = r1 + b_j·r2 + c_j·k with k = α·a. Differencing removes
		// r1; a second difference removes r2 and leaves k.
		db1, dc1, ds1 := bs[1].Sub(bs[0]), cs[1].Sub(cs[0]), ss[1].Sub(ss[0])
		db2, dc2, ds2 := bs[2].Sub(bs[0]), cs[2].Sub(cs[0]), ss[2].Sub(ss[0])

		det := db1.Mul(dc2).Sub(db2.Mul(dc1))
		k := db1.Mul(ds2).Sub(db2.Mul(ds1)).Mul(det.Invert())

		alpha, err := set.apk.CoefficientFor(victim.PublicKey())
		Expect(err).NotTo(HaveOccurred())
		Expect(k.Equal(alpha.Mul(victim.ExpandedScalar()))).To(BeTrue())
	})
})

var _ = Describe("Wire values", func() {
	It("round-trips a FirstRoundMessage through base58", func() {
		kp, err := keypair.Generate(rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		msg, _, err := musig2.RoundOne(kp, rand.Reader)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := musig2.FirstRoundMessageFromBase58(msg.Base58())
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.R1.Equal(msg.R1)).To(BeTrue())
		Expect(decoded.R2.Equal(msg.R2)).To(BeTrue())
		Expect(decoded.Sender.Equal(msg.Sender)).To(BeTrue())
	})

	It("round-trips a SessionSecret through base58 preserving its nonces", func() {
		kp, err := keypair.Generate(rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		_, secret, err := musig2.RoundOne(kp, rand.Reader)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := musig2.SessionSecretFromBase58(secret.Base58())
		Expect(err).NotTo(HaveOccurred())

		wantR1, wantR2 := secret.PublicNonces()
		gotR1, gotR2 := decoded.PublicNonces()
		Expect(gotR1.Equal(wantR1)).To(BeTrue())
		Expect(gotR2.Equal(wantR2)).To(BeTrue())
	})
})
