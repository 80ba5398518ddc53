package lang

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

func registerEncodeBuiltins(table map[string]Value) {
	register(table, "base64_encode", 1, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		return String{Value: base64.StdEncoding.EncodeToString([]byte(s))}, nil
	})

	register(table, "base64_decode", 1, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, valueErrorf(0, "base64_decode: invalid base64 input: %s", err)
		}

		if !utf8.Valid(decoded) {
			return nil, valueErrorf(0, "base64_decode: decoded bytes are not valid UTF-8")
		}

		return String{Value: string(decoded)}, nil
	})

	register(table, "hash_md5", 1, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		return String{Value: fmt.Sprintf("%x", md5.Sum([]byte(s)))}, nil
	})

	register(table, "hash_sha256", 1, func(args []Value) (Value, error) {
		s, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		return String{Value: fmt.Sprintf("%x", sha256.Sum256([]byte(s)))}, nil
	})
}
