package config

type AppConfig struct {
	Server ServerConfig
	Case   CaseConfig
	Log    LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	caseCfg, err := LoadCase()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Case:   caseCfg,
		Log:    logCfg,
	}, nil
}
