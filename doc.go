// Package simplesecrets packs structured values into compact, opaque,
// URL-safe tokens that only holders of the same 256-bit master key can
// read or forge.
//
// Each token is encrypted with AES-256-CBC and authenticated with
// HMAC-SHA256 using keys derived from the master key, and carries a short
// key identity so that foreign tokens are rejected cheaply. The payload is
// MessagePack, so tokens interoperate with the other simple-secrets
// implementations.
//
// Basic usage:
//
//	sender, err := simplesecrets.NewFromHex(os.Getenv("SIMPLE_SECRETS_MASTER_KEY"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sender.Close()
//
//	token, err := sender.Pack(value.Map(value.KV("user", value.String("alice"))))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	v, ok, err := sender.Unpack(token)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !ok {
//	    // forged, tampered, or packed under another key
//	}
//	fmt.Println(v)
package simplesecrets
