package utils

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"time"

	"github.com/mpapenbr/racesim/log"
)

func WaitForTCP(addr string, timeout time.Duration) error {
	timeoutReached := time.Now().Add(timeout)
	start := time.Now()
	log.Debug("wait for tcp connection",
		log.String("addr", addr),
		log.String("timeout", timeout.String()))
	var d net.Dialer
	for time.Now().Before(timeoutReached) {
		conn, err := d.DialContext(context.Background(), "tcp", addr)
		if err == nil {
			conn.Close()

			log.Debug("tcp connection successful",
				log.String("addr", addr),
				log.String("duration", time.Since(start).String()))
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("%s could not be reached after %v", addr, timeout)
}

// HostPort extracts host:port from urls like nats://host:4222 or host:4317.
// defaultPort is used if the url has none.
func HostPort(url, defaultPort string) (string, error) {
	param := resolveRegex(
		"^((?P<proto>[a-z]+)://)?(.*@)?(?P<host>[^:/@]+)(:(?P<port>\\d+))?(/.*)?$", url)
	host := param["host"]
	if host == "" {
		return "", fmt.Errorf("no host in %q", url)
	}
	if port := param["port"]; port != "" {
		return net.JoinHostPort(host, port), nil
	}
	return net.JoinHostPort(host, defaultPort), nil
}

func resolveRegex(regEx, url string) (paramsMap map[string]string) {
	compRegEx := regexp.MustCompile(regEx)
	match := compRegEx.FindStringSubmatch(url)

	paramsMap = make(map[string]string)
	for i, name := range compRegEx.SubexpNames() {
		if i > 0 && i < len(match) {
			paramsMap[name] = match[i]
		}
	}
	return paramsMap
}
