package simplesecrets_test

import (
	"fmt"
	"strings"

	simplesecrets "github.com/simple-secrets/simple-secrets-go"
	"github.com/simple-secrets/simple-secrets-go/value"
)

func Example() {
	sender, err := simplesecrets.NewFromHex(strings.Repeat("cd", 32))
	if err != nil {
		panic(err)
	}
	defer sender.Close()

	token, err := sender.Pack(value.Map(
		value.KV("user", value.String("alice")),
		value.KV("admin", value.Bool(false)),
	))
	if err != nil {
		panic(err)
	}

	v, ok, err := sender.Unpack(token)
	if err != nil {
		panic(err)
	}

	fmt.Println(ok)
	fmt.Println(v)
	fmt.Println(strings.HasPrefix(token, "sJfaVoPx"))
	// Output:
	// true
	// {"user": "alice", "admin": false}
	// true
}

func ExamplePacket_Unpack_foreign() {
	alice, _ := simplesecrets.NewFromHex(strings.Repeat("aa", 32))
	bob, _ := simplesecrets.NewFromHex(strings.Repeat("bb", 32))

	token, _ := alice.Pack(value.String("for alice only"))

	v, ok, err := bob.Unpack(token)
	fmt.Println(v, ok, err)
	// Output:
	// nil false <nil>
}
