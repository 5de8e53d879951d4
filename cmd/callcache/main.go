// Command callcache inspects and maintains on-disk call caches.
//
//	callcache clear                       remove cache files from cache.path
//	callcache keys <file> [--op name]     list stored keys
//	callcache show <file> <key> [--codec] decode one entry (msgpack, cbor, json, string, bytes)
//	callcache invalidate <file> --op name drop every entry of one operation
//	callcache config                      show the effective settings
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	os.Exit(realMain(context.Background(), os.Args))
}

func realMain(ctx context.Context, args []string) int {
	app := newApp(os.Stdout)
	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
