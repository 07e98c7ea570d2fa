package cluster

// Configuration is shared between the executable and the library. Defaults
// and JSON loading live with the executable.
type Configuration struct {
	MaxEvents  int        `json:"max_events"`
	Verbosity  int        `json:"verbosity"`
	FilesIn    []string   `json:"files_in"`
	FileOut    string     `json:"file_out"`
	Layout     LayoutCode `json:"layout"`
	RunNumber  int        `json:"run_number"`
	NoDB       bool       `json:"no_db"`
	CalibFile  string     `json:"calib_file"`
	Discard    bool       `json:"discard"`
	Skip       int        `json:"skip"`
	Host       string     `json:"host"`
	User       string     `json:"user"`
	Passwd     string     `json:"pass"`
	DBName     string     `json:"dbname"`
	NumWorkers int        `json:"num_workers"`
	WriteData  bool       `json:"write_data"`
	Parallel   bool       `json:"parallel"`
}

var configuration Configuration

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}
