// Package blend implements Porter-Duff compositing operators over
// premultiplied alpha, plus a mask-alpha extension used when a command
// covers a pixel only partially (coverage from a rasterized strip).
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// BlendMode is a Porter-Duff compositing operator.
type BlendMode uint8

const (
	BlendSrcOver     BlendMode = iota // S + D*(1-Sa) [default]
	BlendCopy                         // S (replace), or SrcOver under partial coverage
	BlendDest                         // D (destination unchanged)
	BlendDestOver                    // S*(1-Da) + D
	BlendSrcIn                       // S*Da
	BlendDestIn                      // D*Sa
	BlendSrcOut                      // S*(1-Da)
	BlendDestOut                     // D*(1-Sa)
	BlendSrcAtop                     // S*Da + D*(1-Sa)
	BlendDestAtop                    // S*(1-Da) + D*Sa
	BlendXor                         // S*(1-Da) + D*(1-Sa)
	BlendPlus                        // S + D, clamped
	BlendPlusLighter                 // alias of Plus
	BlendClear                       // destination attenuated by coverage, not zeroed
)

// BlendFunc composites a fully-covered (am=255) source over a destination.
// All values are premultiplied alpha, 0-255.
type BlendFunc func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// GetBlendFunc returns the full-coverage blend function for mode. Unknown
// modes fall back to SrcOver.
func GetBlendFunc(mode BlendMode) BlendFunc {
	switch mode {
	case BlendClear:
		return blendClear
	case BlendCopy:
		return blendCopy
	case BlendDest:
		return blendDest
	case BlendDestOver:
		return blendDestOver
	case BlendSrcIn:
		return blendSrcIn
	case BlendDestIn:
		return blendDestIn
	case BlendSrcOut:
		return blendSrcOut
	case BlendDestOut:
		return blendDestOut
	case BlendSrcAtop:
		return blendSrcAtop
	case BlendDestAtop:
		return blendDestAtop
	case BlendXor:
		return blendXor
	case BlendPlus:
		return blendPlus
	case BlendPlusLighter:
		return blendPlusLighter
	case BlendSrcOver:
		return blendSrcOver
	default:
		return blendSrcOver
	}
}

// ComposeMasked composites source over destination under partial coverage
// am (0-255). am is 255 for a Fill command and the strip's per-row coverage
// for a Strip command. Passing am=255 reduces every operator to its
// ordinary Porter-Duff definition.
func ComposeMasked(op BlendMode, sr, sg, sb, sa, dr, dg, db, da, am byte) (byte, byte, byte, byte) {
	if op == BlendSrcOver && sa == 255 && am == 255 {
		op = BlendCopy
	}

	aPrime := mulDiv255(sa, am) // source alpha attenuated by coverage
	ab := da

	switch op {
	case BlendClear:
		v := mulDiv255(dr, inv255(am))
		g := mulDiv255(dg, inv255(am))
		b := mulDiv255(db, inv255(am))
		a := mulDiv255(da, inv255(am))
		return v, g, b, a
	case BlendCopy:
		if am == 255 {
			return sr, sg, sb, sa
		}
		return ComposeMasked(BlendSrcOver, sr, sg, sb, sa, dr, dg, db, da, am)
	case BlendDest:
		return dr, dg, db, da
	}

	return composeChannel(op, sr, dr, aPrime, ab, am),
		composeChannel(op, sg, dg, aPrime, ab, am),
		composeChannel(op, sb, db, aPrime, ab, am),
		composeChannel(op, sa, da, aPrime, ab, am)
}

// composeChannel applies the Fa/Fb coefficient form of the Porter-Duff
// algebra to a single channel, with sv pre-attenuated by the mask am via
// svPrime = sv*am/255 wherever the classic formula uses the source value.
func composeChannel(op BlendMode, sv, cb, aPrime, ab, am byte) byte {
	svPrime := mulDiv255(sv, am)
	switch op {
	case BlendSrcOver:
		return addClamp(svPrime, mulDiv255(cb, inv255(aPrime)))
	case BlendDestOver:
		return addClamp(mulDiv255(svPrime, inv255(ab)), cb)
	case BlendSrcIn:
		return mulDiv255(svPrime, ab)
	case BlendDestIn:
		return mulDiv255(cb, aPrime)
	case BlendSrcOut:
		return mulDiv255(svPrime, inv255(ab))
	case BlendDestOut:
		return mulDiv255(cb, inv255(aPrime))
	case BlendSrcAtop:
		return addClamp(mulDiv255(svPrime, ab), mulDiv255(cb, inv255(aPrime)))
	case BlendDestAtop:
		return addClamp(mulDiv255(svPrime, inv255(ab)), mulDiv255(cb, aPrime))
	case BlendXor:
		return addClamp(mulDiv255(svPrime, inv255(ab)), mulDiv255(cb, inv255(aPrime)))
	case BlendPlus, BlendPlusLighter:
		return addClamp(svPrime, cb)
	default:
		return addClamp(svPrime, mulDiv255(cb, inv255(aPrime)))
	}
}

// Full-coverage convenience wrappers, used for Fill commands and hoisted
// wide-tile backgrounds where am is always 255.

func blendClear(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return ComposeMasked(BlendClear, sr, sg, sb, sa, dr, dg, db, da, 255)
}

func blendCopy(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return ComposeMasked(BlendCopy, sr, sg, sb, sa, dr, dg, db, da, 255)
}

func blendDest(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return dr, dg, db, da
}

func blendSrcOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return ComposeMasked(BlendSrcOver, sr, sg, sb, sa, dr, dg, db, da, 255)
}

func blendDestOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return ComposeMasked(BlendDestOver, sr, sg, sb, sa, dr, dg, db, da, 255)
}

func blendSrcIn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return ComposeMasked(BlendSrcIn, sr, sg, sb, sa, dr, dg, db, da, 255)
}

func blendDestIn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return ComposeMasked(BlendDestIn, sr, sg, sb, sa, dr, dg, db, da, 255)
}

func blendSrcOut(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return ComposeMasked(BlendSrcOut, sr, sg, sb, sa, dr, dg, db, da, 255)
}

func blendDestOut(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return ComposeMasked(BlendDestOut, sr, sg, sb, sa, dr, dg, db, da, 255)
}

func blendSrcAtop(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return ComposeMasked(BlendSrcAtop, sr, sg, sb, sa, dr, dg, db, da, 255)
}

func blendDestAtop(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return ComposeMasked(BlendDestAtop, sr, sg, sb, sa, dr, dg, db, da, 255)
}

func blendXor(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return ComposeMasked(BlendXor, sr, sg, sb, sa, dr, dg, db, da, 255)
}

func blendPlus(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return ComposeMasked(BlendPlus, sr, sg, sb, sa, dr, dg, db, da, 255)
}

func blendPlusLighter(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return ComposeMasked(BlendPlusLighter, sr, sg, sb, sa, dr, dg, db, da, 255)
}
