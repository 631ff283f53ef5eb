package urlpath

import (
	"bytes"
	"testing"
)

// TestDecode はパーセントデコードの結果をテストする
func TestDecode(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"空文字列", "", ""},
		{"スペース", "a%20b", "a b"},
		{"パーセント自身", "100%25", "100%"},
		{"大文字小文字混在", "%4a%4A", "JJ"},
		{"先頭のエスケープ", "%41bc", "Abc"},
		{"連続したエスケープ", "%E3%81%82", "\xe3\x81\x82"},
		{"末尾で2文字足りない", "abc%2", "abc%2"},
		{"末尾の%", "abc%", "abc%"},
		{"16進数でない文字", "%zz1", "%zz1"},
		{"片方だけ16進数", "%4g", "%4g"},
		{"NULバイト", "a%00b", "a\x00b"},
		{"パス", "assets/my%20file.html", "assets/my file.html"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecodeString(tc.input)
			if got != tc.expected {
				t.Errorf("デコード結果が一致しません: got %q, want %q", got, tc.expected)
			}
		})
	}
}

// TestDecodeIdentity は%を含まない入力がそのまま返ることをテストする
func TestDecodeIdentity(t *testing.T) {
	inputs := [][]byte{
		[]byte("assets/example.html"),
		[]byte("api/books"),
		{0x00, 0x7f, 0xff, ' ', '/'},
	}

	for _, in := range inputs {
		got := Decode(in)
		if !bytes.Equal(got, in) {
			t.Errorf("%%を含まない入力が変化しました: got %q, want %q", got, in)
		}
	}

	// 入力とは別のスライスを返す
	src := []byte("abc")
	out := Decode(src)
	out[0] = 'x'
	if src[0] != 'a' {
		t.Error("Decodeが入力スライスを書き換えました")
	}
}
