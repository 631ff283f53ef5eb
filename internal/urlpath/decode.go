// Package urlpath はリクエストパスのパーセントエンコーディングを復号します。
package urlpath

// Decode は %XX 形式の16進エスケープを対応するバイトに置き換えた新しいスライスを返す
//
// 復号は寛容に行う。% の後ろに2文字残っていない場合や16進数でない場合は
// % をそのまま出力して次のバイトへ進む。
func Decode(src []byte) []byte {
	dst := make([]byte, 0, len(src))

	for i := 0; i < len(src); i++ {
		if src[i] == '%' && i+2 < len(src) {
			hi, okHi := unhex(src[i+1])
			lo, okLo := unhex(src[i+2])
			if okHi && okLo {
				dst = append(dst, hi<<4|lo)
				i += 2
				continue
			}
		}
		dst = append(dst, src[i])
	}

	return dst
}

// DecodeString は文字列版のDecode
func DecodeString(s string) string {
	return string(Decode([]byte(s)))
}

// unhex は16進数1桁を値に変換する
func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
