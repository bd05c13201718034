package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/spf13/viper"

	"github.com/bitmark-inc/geosubmit-api/store"
)

func init() {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("geosubmit")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func main() {
	var (
		key         string
		shortname   string
		allowSubmit bool
	)
	flag.StringVar(&key, "key", "", "[optional] api key to register")
	flag.StringVar(&shortname, "shortname", "", "[optional] short name of the api key owner")
	flag.BoolVar(&allowSubmit, "submit", true, "[optional] allow the api key to submit reports")
	flag.Parse()

	db, err := gorm.Open("postgres", viper.GetString("orm.conn"))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	s := store.NewGeoSubmitStore(db)
	if err := s.Migrate(); err != nil {
		panic(err)
	}
	fmt.Println("migrated table api_key")

	if key == "" {
		return
	}

	_, err = s.CreateAPIKey(key, shortname, allowSubmit)
	if errors.Is(err, store.ErrAPIKeyExists) {
		if err := s.SetAllowSubmit(key, allowSubmit); err != nil {
			panic(err)
		}
		fmt.Printf("updated api key %s, allow submit: %t\n", key, allowSubmit)
		return
	} else if err != nil {
		panic(err)
	}
	fmt.Printf("registered api key %s, allow submit: %t\n", key, allowSubmit)
}
