// Command acknackdemo wires the reader-side reliability feedback subsystem
// end to end against the reorderfake/defragfake reference collaborators,
// driving the scheduler/committer on a ticker and exporting the resulting
// decisions as Prometheus metrics, the composition described in spec.md
// section 2.
package main

import (
	"encoding/binary"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/xid"

	"github.com/yzrtps/acknack/acknack"
	"github.com/yzrtps/acknack/config"
	"github.com/yzrtps/acknack/defragfake"
	"github.com/yzrtps/acknack/msgpoolfake"
	"github.com/yzrtps/acknack/reorderfake"
	"github.com/yzrtps/acknack/schedcommit"
	"github.com/yzrtps/acknack/seqnum"
)

// newGUID builds a 16-byte GUID the way a real participant would: a
// 12-byte instance-unique prefix followed by a 4-byte entity id (the same
// guid[12:] suffix schedcommit.entityID extracts). The prefix is generated
// with xid rather than hand-rolled, the same generator
// runZeroInc-sockstats uses for its own opaque per-connection ids
// (xid.New().String() in cmd/exporter_example2/main.go) — here used for
// its raw bytes instead of its string form, since a GUID prefix is binary
// on the wire.
func newGUID(entityID uint32) [16]byte {
	var g [16]byte
	copy(g[:12], xid.New().Bytes())
	binary.BigEndian.PutUint32(g[12:], entityID)
	return g
}

func main() {
	if err := _main(); err != nil {
		defer os.Exit(1)

		var st errors.StackTrace
		type stackTracer interface {
			StackTrace() errors.StackTrace
		}
		if e, ok := err.(stackTracer); ok {
			st = e.StackTrace()
		}
		glog.Errorf("%s%+v\n", err, st)
	}
}

func _main() error {
	var configFile string
	var listenAddr string
	var tickInterval time.Duration
	flag.StringVar(&configFile, "c", "", "path of TOML config file (defaults used if empty)")
	flag.StringVar(&listenAddr, "listen", ":9090", "address to serve /metrics on")
	flag.DurationVar(&tickInterval, "tick", 50*time.Millisecond, "scheduler tick interval")
	flag.Parse()

	var cfg *config.Config
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		glog.Errorf("%+v", errors.WithStack(http.ListenAndServe(listenAddr, nil)))
	}()

	reorder := reorderfake.New(1)
	defrag := defragfake.New()
	dqueue := &staticDeliveryQueue{}
	pwGUID := newGUID(1)
	pw := acknack.NewProxyWriter(pwGUID, reorder, defrag, dqueue, cfg.ProxyWriter)
	pw.Secure = true

	rdGUID := newGUID(2)
	rm := acknack.NewReaderMatch(rdGUID, cfg.ReaderMatch)

	pool := msgpoolfake.NewPool(0)
	sec := passthroughSecurity{}
	entityIndex := staticEntityIndex{participant: newGUID(3)}
	scheduler := &tickerScheduler{}

	// Feed the reorder/defrag fakes a handful of samples, with a gap at 3
	// to exercise the NACK path on the first ticks.
	for _, s := range []seqnum.Value{1, 2, 4, 5} {
		reorder.Receive(s)
	}
	defrag.Advertise(4, 0)
	defrag.Receive(4, 0)
	pw.LastSeq = 5 // highest sequence number heard of so far

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for tnow := range ticker.C {
		sent, err := schedcommit.MakeAndReschedAcknack(pw, rm, pool, sec, entityIndex, scheduler, tnow, cfg.AvoidSuppressedNack)
		if err != nil {
			glog.Warningf("acknackdemo: %+v", err)
			continue
		}
		if sent {
			glog.V(1).Infof("acknackdemo: emitted message, rm.count=%d", rm.Count)
		} else {
			glog.V(2).Infof("acknackdemo: nothing to send (next rearm %v)", scheduler.NextFire())
		}
	}

	return nil
}
