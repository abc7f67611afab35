package constant

// AsciiArtLogo is the banner printed at the top of the root command help.
const AsciiArtLogo = `
   ____       _      __     _____ __
  / __ \__ __(_)__  / /_   / ___// /_________  ____ _____ ___
 / / / / // / / -_)/ __/   \__ \/ __/ ___/ _ \/ __ ` + "`" + `/ __ ` + "`" + `__ \
/ /_/ / ,_/ /\__/ \__/   ___/ / /_/ /  /  __/ /_/ / / / / / /
\___\_\__/_/              /____/\__/_/   \___/\__,_/_/ /_/ /_/
`
