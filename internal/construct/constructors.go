package construct

import (
	"net"

	"github.com/weft-http/weft/config"
	"github.com/weft-http/weft/internal/buffer"
	"github.com/weft-http/weft/transport"
)

func Client(cfg config.NET, conn net.Conn) transport.Client {
	readBuff := make([]byte, cfg.ReadBufferSize)

	return transport.NewClient(conn, cfg.ReadTimeout, readBuff)
}

func HeadBuffer(cfg config.HTTP) buffer.Buffer {
	return buffer.New(cfg.HeadBufferPrealloc, cfg.HeadMaxSize)
}
