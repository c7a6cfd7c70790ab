package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evcc-io/onstar/core"
	"github.com/evcc-io/onstar/platform"
	"github.com/evcc-io/onstar/server"
	"github.com/evcc-io/onstar/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func runFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP(
		"uri", "u",
		"0.0.0.0:7070",
		"Listen address",
	)
	bind(cmd, "uri")

	cmd.PersistentFlags().DurationP(
		"interval", "i",
		30*time.Second,
		"Entity poll interval",
	)
	bind(cmd, "interval")

	cmd.PersistentFlags().Bool(
		"metrics",
		false,
		"Expose metrics",
	)
	bind(cmd, "metrics")
}

func runRun(cmd *cobra.Command, args []string) {
	util.LogLevel(viper.GetString("log"), viper.GetStringMapString("levels"))
	log.INFO.Printf("onstar %s (%s)", server.Version, server.Commit)

	conf, err := loadConfigFile(cfgFile)
	if err != nil {
		log.FATAL.Fatal(err)
	}

	// re-configure logging after reading config file
	util.LogLevel(viper.GetString("log"), viper.GetStringMapString("levels"))

	uri := viper.GetString("uri")
	log.INFO.Println("listening at", uri)

	url, err := server.PublicURL(uri)
	if err != nil {
		log.WARN.Printf("cannot determine public url: %v", err)
	}

	// start broadcasting values
	tee := &util.Tee{}

	// value cache
	cache := util.NewCache()
	go cache.Run(tee.Attach())

	// setup values channel
	valueChan := make(chan util.Param)
	go tee.Run(valueChan)

	host := server.NewHost(valueChan)

	// setup database
	if conf.Influx.URL != "" {
		influx := server.NewInfluxClient(conf.Influx)
		go influx.Run(tee.Attach())
	}

	// setup mqtt publisher
	if conf.Mqtt.Broker != "" {
		publisher, err := server.NewMQTT(conf.Mqtt, host, url)
		if err != nil {
			log.FATAL.Fatalf("failed configuring mqtt: %v", err)
		}
		go publisher.Run(tee.Attach())
	}

	// create webserver
	httpd := server.NewHTTPd(uri, host, cache)

	// metrics
	if viper.GetBool("metrics") {
		metrics, err := server.NewMetrics(prometheus.DefaultRegisterer)
		if err != nil {
			log.FATAL.Fatal(err)
		}
		go metrics.Run(tee.Attach())

		httpd.Router().Handle("/metrics", promhttp.Handler())
	}

	store, err := platform.Setup(host, conf.OnStar, platform.NewClient)
	if err != nil {
		log.FATAL.Fatal(err)
	}

	if err := store.Subscribe(func(snap *core.Snapshot) {
		log.DEBUG.Printf("next update in %v", store.NextUpdate().Round(time.Second))
		if snap != nil {
			valueChan <- util.Param{Key: "updated", Val: snap.Updated()}
		}
	}); err != nil {
		log.FATAL.Fatal(err)
	}

	stopC := make(chan struct{})
	exitC := make(chan struct{})

	go func() {
		host.Run(stopC, conf.Interval, func() error {
			return store.Update(false)
		})
		close(exitC)
	}()

	// catch signals
	go func() {
		signalC := make(chan os.Signal, 1)
		signal.Notify(signalC, os.Interrupt, syscall.SIGTERM)

		<-signalC    // wait for signal
		close(stopC) // signal loop to end

		select {
		case <-exitC: // wait for loop to end
		case <-time.NewTimer(conf.Interval).C: // wait max 1 period
		}

		os.Exit(1)
	}()

	log.FATAL.Println(httpd.ListenAndServe())
}
